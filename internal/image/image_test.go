package image

import "testing"

func TestSplitReference(t *testing.T) {
	tests := []struct {
		ref     string
		name    string
		tag     string
		wantErr bool
	}{
		{"busybox:latest", "busybox", "latest", false},
		{"busybox", "", "", true},
		{"a:b:c", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		name, tag, err := splitReference(tt.ref)
		if (err != nil) != tt.wantErr {
			t.Errorf("splitReference(%q) err = %v, wantErr %v", tt.ref, err, tt.wantErr)
			continue
		}
		if err == nil && (name != tt.name || tag != tt.tag) {
			t.Errorf("splitReference(%q) = (%q, %q), want (%q, %q)", tt.ref, name, tag, tt.name, tt.tag)
		}
	}
}

func TestInvalidImageErrorMessage(t *testing.T) {
	err := &Error{Kind: InvalidImage}
	if err.Error() == "" {
		t.Error("expected non-empty error message")
	}
}
