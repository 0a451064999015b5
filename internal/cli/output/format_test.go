package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"yaml": FormatYAML,
		"yml":  FormatYAML,
		"YAML": FormatYAML,
		"":     FormatYAML,
		"json": FormatJSON,
		"JSON": FormatJSON,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestPrintJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := PrintJSON(buf, map[string]string{"key": "value"}); err != nil {
		t.Fatalf("PrintJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"key": "value"`) {
		t.Errorf("Expected indented JSON, got %q", buf.String())
	}
}

func TestPrintYAML(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := PrintYAML(buf, map[string]string{"key": "value"}); err != nil {
		t.Fatalf("PrintYAML failed: %v", err)
	}
	if !strings.Contains(buf.String(), "key: value") {
		t.Errorf("Expected YAML output, got %q", buf.String())
	}
}
