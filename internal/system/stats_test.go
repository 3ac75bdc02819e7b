package system

import "testing"

func TestSamplerReadsProcess(t *testing.T) {
	s, err := NewSampler()
	if err != nil {
		t.Skipf("process stats unavailable: %v", err)
	}
	st := s.Sample()
	if st.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", st.Goroutines)
	}
}

func TestNilSampler(t *testing.T) {
	var s *Sampler
	if st := s.Sample(); st.RSS != 0 || st.Goroutines < 1 {
		t.Errorf("Unexpected nil sample %+v", st)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
