package logger

import "testing"

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"john.doe@example.com", "joh***@example.com"},
		{"ab@example.com", "ab***@example.com"},
		{"", ""},
		{"not-an-email", "***"},
	}
	for _, tc := range cases {
		if got := MaskEmail(tc.in); got != tc.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+12345678901", "+123***8901"},
		{"", ""},
		{"12345", "***2345"},
		{"123", "***"},
	}
	for _, tc := range cases {
		if got := MaskPhone(tc.in); got != tc.want {
			t.Errorf("MaskPhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskIP(t *testing.T) {
	if got := MaskIP("192.168.1.42"); got != "192.168.*.*" {
		t.Errorf("MaskIP ipv4 = %q", got)
	}
	if got := MaskIP("2001:db8:1:2:3:4:5:6"); got != "2001:db8:1:2:*:*:*:*" {
		t.Errorf("MaskIP ipv6 = %q", got)
	}
	if got := MaskIP(""); got != "" {
		t.Errorf("MaskIP empty = %q", got)
	}
}

func TestMaskString(t *testing.T) {
	if got := MaskString("cl_live_abc123"); got != "cl***23" {
		t.Errorf("MaskString = %q", got)
	}
	if got := MaskString("key"); got != "***" {
		t.Errorf("short MaskString = %q", got)
	}
	if got := MaskString(""); got != "" {
		t.Errorf("empty MaskString = %q", got)
	}
}
