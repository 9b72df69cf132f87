package whatsapp

import (
	"errors"
	"testing"
)

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "dashed local number", in: "0812-3456-7890", want: "6281234567890"},
		{name: "already international", in: "6281234567890", want: "6281234567890"},
		{name: "spaces and parens", in: "(0812) 345 678", want: "62812345678"},
		{name: "plus prefix", in: "+62 812-3456-7890", want: "6281234567890"},
		{name: "no digits", in: "abc-def", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeNumber(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrEmptyNumber) {
					t.Fatalf("NormalizeNumber(%q) error = %v, want ErrEmptyNumber", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeNumber(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeNumber(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildLink(t *testing.T) {
	link, err := BuildLink("0812-3456-7890", "Hi! I'm interested")
	if err != nil {
		t.Fatalf("BuildLink unexpected error: %v", err)
	}
	want := "https://wa.me/6281234567890?text=Hi%21+I%27m+interested"
	if link != want {
		t.Errorf("BuildLink = %q, want %q", link, want)
	}
}

func TestBuildLinkNoMessage(t *testing.T) {
	link, err := BuildLink("081234567890", "")
	if err != nil {
		t.Fatalf("BuildLink unexpected error: %v", err)
	}
	if link != "https://wa.me/6281234567890" {
		t.Errorf("BuildLink = %q, want bare number link", link)
	}
}

func TestLinkQR(t *testing.T) {
	png, err := LinkQR("081234567890", "hello", 0)
	if err != nil {
		t.Fatalf("LinkQR unexpected error: %v", err)
	}
	if len(png) == 0 {
		t.Error("LinkQR returned empty image")
	}
}
