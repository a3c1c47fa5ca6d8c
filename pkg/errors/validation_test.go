package errors

import (
	"strings"
	"testing"
)

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxBytes int
		wantCode Code
	}{
		{"valid", "# Title\n- step", 0, ""},
		{"valid under limit", "flowchart TD\nA-->B", 100, ""},
		{"empty", "", 0, ErrCodeEmptyContent},
		{"whitespace only", "  \n\t\n", 0, ErrCodeEmptyContent},
		{"too large", strings.Repeat("x", 11), 10, ErrCodeInputTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.input, tt.maxBytes)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("ValidateContent() error = %v, want nil", err)
				}
				return
			}
			if !Is(err, tt.wantCode) {
				t.Errorf("ValidateContent() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Incident Response", false},
		{"valid unicode", "Réponse aux incidents", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 201), true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTitle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f2b8c1e-9d4a-4c8e-b1f7-2a6d5e9c0b13", false},
		{"slug", "incident_response", false},

		{"empty", "", true},
		{"slash", "a/b", true},
		{"leading dash", "-abc", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeEmptyContent,
		ErrCodeInvalidExportFormat,
		ErrCodeInvalidGraph,
		ErrCodeInputTooLarge,
		ErrCodeGraphTooLarge,
		ErrCodeNotFound,
		ErrCodePlaybookNotFound,
		ErrCodeFileNotFound,
		ErrCodeStorage,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
