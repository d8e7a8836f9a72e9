package errors

import (
	"strings"
	"testing"
)

func TestValidateSaveName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "level 3", false},
		{"valid unicode", "Sonntag früh", false},
		{"valid max length", strings.Repeat("a", MaxSaveNameLength), false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", MaxSaveNameLength+1), true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"traversal", "..", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSaveName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSaveName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSaveName) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidSaveName)
			}
		})
	}
}

func TestValidateLevelNumber(t *testing.T) {
	tests := []struct {
		input   int
		wantErr bool
	}{
		{0, false},
		{12, false},
		{MaxLevelNumber, false},
		{-1, true},
		{MaxLevelNumber + 1, true},
		{10_000, true},
	}

	for _, tt := range tests {
		err := ValidateLevelNumber(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateLevelNumber(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("yaml", "text", "json", "yaml"); err != nil {
		t.Errorf("ValidateFormat(yaml) = %v", err)
	}
	err := ValidateFormat("xml", "text", "json", "yaml")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Fatalf("ValidateFormat(xml) = %v, want %v", err, ErrCodeInvalidFormat)
	}
	if !strings.Contains(UserMessage(err), "text, json, yaml") {
		t.Errorf("message %q does not list the allowed formats", UserMessage(err))
	}
}
