package classify

import "testing"

func TestClassifyByExtension(t *testing.T) {
	cases := []struct {
		path string
		lang string
		kind Kind
	}{
		{"main.go", "go", KindCode},
		{"script.py", "python", KindCode},
		{"README.md", "", KindDoc},
		{"config.yaml", "", KindConfig},
		{"data.json", "", KindData},
		{"index.html", "", KindWeb},
	}
	for _, c := range cases {
		r := Classify(c.path, nil)
		if r.Language != c.lang || r.Kind != c.kind {
			t.Errorf("Classify(%q) = %+v, want lang=%q kind=%q", c.path, r, c.lang, c.kind)
		}
	}
}

func TestClassifyUnknownIsOther(t *testing.T) {
	r := Classify("weird.xyzabc", nil)
	if r.Kind != KindOther || r.Capability != CapabilityNone {
		t.Errorf("expected other/none, got %+v", r)
	}
}

func TestClassifyByShebang(t *testing.T) {
	r := Classify("myscript", []byte("#!/usr/bin/env python\nprint('hi')\n"))
	if r.Language != "python" || r.Kind != KindCode {
		t.Errorf("expected python shebang classification, got %+v", r)
	}
}

func TestClassifyBySniff(t *testing.T) {
	r := Classify("data", []byte(`{"a": 1}`))
	if r.Kind != KindData {
		t.Errorf("expected data kind from JSON sniff, got %+v", r)
	}
}

func TestIsIgnored(t *testing.T) {
	if !IsIgnored("vendor/pkg/file.go", []string{"vendor"}) {
		t.Errorf("expected vendor path to be ignored")
	}
	if IsIgnored("internal/pkg/file.go", []string{"vendor"}) {
		t.Errorf("did not expect internal path to be ignored")
	}
}
