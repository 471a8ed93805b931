package dataroom_test

import (
	"strings"
	"testing"

	"github.com/marmos91/dataroom/pkg/dataroom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims_edges", "  Annual Report  ", "Annual Report"},
		{"collapses_internal_runs", "Annual    Report", "Annual Report"},
		{"tabs_and_newlines", "Annual\t\nReport", "Annual Report"},
		{"already_clean", "Annual Report", "Annual Report"},
		{"only_whitespace", " \t\n ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, dataroom.Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"  a  b  ", "x", "", "  CON .pdf "}
	for _, input := range inputs {
		once := dataroom.Normalize(input)
		assert.Equal(t, once, dataroom.Normalize(once))
	}
}

func TestSplitExtension(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectedBase string
		expectedExt  string
	}{
		{"simple", "report.pdf", "report", ".pdf"},
		{"multiple_dots", "report.v2.pdf", "report.v2", ".pdf"},
		{"no_extension", "report", "report", ""},
		{"leading_dot_only", ".hidden", ".hidden", ""},
		{"trailing_dot", "report.", "report", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, ext := dataroom.SplitExtension(tt.input)
			assert.Equal(t, tt.expectedBase, base)
			assert.Equal(t, tt.expectedExt, ext)
		})
	}
}

func TestValidateName_Containers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Reports", false},
		{"valid_with_dots", "v1.2 archive", false},
		{"empty", "", true},
		{"too_long", strings.Repeat("a", 256), true},
		{"max_length_ok", strings.Repeat("a", 255), false},
		{"multibyte_counts_runes_not_bytes", strings.Repeat("é", 255), false},
		{"multibyte_too_long", strings.Repeat("é", 256), true},
		{"forbidden_slash", "a/b", true},
		{"forbidden_backslash", `a\b`, true},
		{"forbidden_colon", "a:b", true},
		{"forbidden_angle", "a<b>", true},
		{"forbidden_question", "why?", true},
		{"forbidden_star", "glob*", true},
		{"forbidden_pipe", "a|b", true},
		{"forbidden_quote", `say "hi"`, true},
		{"reserved_upper", "CON", true},
		{"reserved_lower", "con", true},
		{"reserved_mixed", "CoM3", true},
		{"reserved_lpt", "lpt9", true},
		{"reserved_prefix_is_fine", "CONSOLE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dataroom.ValidateName(tt.input, dataroom.EntityContainer)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dataroom.IsKind(err, dataroom.KindNameValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName_Leaves(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"pdf", "report.pdf", false},
		{"pdf_uppercase_ext", "report.PDF", false},
		{"no_extension", "report", false},
		{"wrong_extension", "report.docx", true},
		{"reserved_base_ignores_ext", "CON.pdf", true},
		{"reserved_base_lowercase", "nul.pdf", true},
		{"leading_dot_reads_as_hidden_file", ".pdf", false},
		{"hidden_file_style", ".gitignore", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dataroom.ValidateName(tt.input, dataroom.EntityLeaf)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dataroom.IsKind(err, dataroom.KindNameValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
