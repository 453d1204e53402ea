package shell

import (
	"reflect"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		fgOnly bool
		want   *command
	}{
		{
			name: "full_command",
			line: "ls -la < in.txt > out.txt &",
			want: &command{
				name:       "ls",
				args:       []string{"ls", "-la"},
				inputPath:  "in.txt",
				outputPath: "out.txt",
				background: true,
			},
		},
		{
			name:   "fg_only_vetoes_background",
			line:   "ls -la < in.txt > out.txt &",
			fgOnly: true,
			want: &command{
				name:       "ls",
				args:       []string{"ls", "-la"},
				inputPath:  "in.txt",
				outputPath: "out.txt",
			},
		},
		{
			name: "bare_command",
			line: "pwd",
			want: &command{name: "pwd", args: []string{"pwd"}},
		},
		{
			name: "markers_in_any_order",
			line: "wc > counts < words &",
			want: &command{
				name:       "wc",
				args:       []string{"wc"},
				inputPath:  "words",
				outputPath: "counts",
				background: true,
			},
		},
		{
			name: "later_redirect_overwrites",
			line: "cat < a < b > x > y",
			want: &command{
				name:       "cat",
				args:       []string{"cat"},
				inputPath:  "b",
				outputPath: "y",
			},
		},
		{
			name: "marker_ends_argument_list",
			line: "grep foo < in stray",
			want: &command{
				name:      "grep",
				args:      []string{"grep", "foo"},
				inputPath: "in",
			},
		},
		{
			name: "background_before_redirect",
			line: "sort & > out",
			want: &command{
				name:       "sort",
				args:       []string{"sort"},
				outputPath: "out",
				background: true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(tt.line, tt.fgOnly, DefaultMaxArgs)
			if err != nil {
				t.Fatalf("parseLine(%q) error: %v", tt.line, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseLineNoCommand(t *testing.T) {
	for _, line := range []string{"", "   ", "\t", "# comment", "   #also a comment"} {
		cmd, err := parseLine(line, false, DefaultMaxArgs)
		if err != nil {
			t.Errorf("parseLine(%q) error: %v", line, err)
		}
		if cmd != nil {
			t.Errorf("parseLine(%q) = %+v, want nil", line, cmd)
		}
	}
}

func TestParseLineMissingRedirectPath(t *testing.T) {
	for _, line := range []string{"ls <", "ls >", "ls -la < in >"} {
		if _, err := parseLine(line, false, DefaultMaxArgs); err == nil {
			t.Errorf("parseLine(%q) succeeded, want parse error", line)
		}
	}
}

func TestParseLineTooManyArguments(t *testing.T) {
	if _, err := parseLine("cmd a b c", false, 2); err == nil {
		t.Error("parseLine with 3 args and limit 2 succeeded, want error")
	}
	cmd, err := parseLine("cmd a b", false, 2)
	if err != nil {
		t.Fatalf("parseLine at the limit failed: %v", err)
	}
	if len(cmd.args) != 3 {
		t.Errorf("args = %v, want name plus 2 arguments", cmd.args)
	}
}
