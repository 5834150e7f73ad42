package patent

import "testing"

func TestNew_Description(t *testing.T) {
	r := New("P1", "Honey quality sensor", "A device measuring honey purity.", nil)
	want := "Honey quality sensor. A device measuring honey purity."
	if r.Description() != want {
		t.Errorf("description = %q, want %q", r.Description(), want)
	}
}

func TestNew_EmptyFields(t *testing.T) {
	r := New("", "", "", TemplateImageRef("https://img/{id}.png"))
	if r.Description() != ". " {
		t.Errorf("description = %q, want %q", r.Description(), ". ")
	}
	if r.ImageRef() != "" {
		t.Errorf("expected empty image ref for empty id, got %q", r.ImageRef())
	}
}

func TestTemplateImageRef(t *testing.T) {
	tests := []struct {
		tmpl, id, want string
	}{
		{"https://img.example/{id}.png", "ES123", "https://img.example/ES123.png"},
		{"https://img.example/images/", "ES123", "https://img.example/images/ES123.png"},
		{"/{id}/{id}.jpg", "X", "/X/X.jpg"},
	}
	for _, tc := range tests {
		r := New(tc.id, "t", "a", TemplateImageRef(tc.tmpl))
		if r.ImageRef() != tc.want {
			t.Errorf("TemplateImageRef(%q)(%q) = %q, want %q", tc.tmpl, tc.id, r.ImageRef(), tc.want)
		}
	}
}

func TestTemplateImageRef_Empty(t *testing.T) {
	if TemplateImageRef("") != nil {
		t.Fatal("expected nil func for empty template")
	}
	r := New("P1", "t", "a", TemplateImageRef(""))
	if r.ImageRef() != "" {
		t.Errorf("expected empty image ref, got %q", r.ImageRef())
	}
}
