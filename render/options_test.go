package render

import "testing"

func TestParseDithering(t *testing.T) {
	for _, d := range allDithering {
		got, err := ParseDithering(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDithering(%q) = %v, %v, wanted %v", d.String(), got, err, d)
		}
	}
	aliases := map[string]Dithering{
		"FS":        FloydSteinberg,
		"threshold": None,
		"simple":    OrderedBayer,
		"Sierra":    Sierra,
	}
	for s, want := range aliases {
		if got, err := ParseDithering(s); err != nil || got != want {
			t.Errorf("ParseDithering(%q) = %v, %v, wanted %v", s, got, err, want)
		}
	}
	if _, err := ParseDithering("atkinson"); err == nil {
		t.Errorf("ParseDithering(%q) = _, nil, wanted error", "atkinson")
	}
}

func TestParseScaling(t *testing.T) {
	for _, s := range []Scaling{Letterbox, CropCenter, Stretch} {
		got, err := ParseScaling(s.String())
		if err != nil || got != s {
			t.Errorf("ParseScaling(%q) = %v, %v, wanted %v", s.String(), got, err, s)
		}
	}
	if _, err := ParseScaling("zoom"); err == nil {
		t.Errorf("ParseScaling(%q) = _, nil, wanted error", "zoom")
	}
}

func TestParseRotation(t *testing.T) {
	cases := []struct {
		degrees int
		want    Rotation
		wantErr bool
	}{
		{degrees: 0, want: Rotate0},
		{degrees: 90, want: Rotate90},
		{degrees: 180, want: Rotate180},
		{degrees: 270, want: Rotate270},
		{degrees: 450, want: Rotate90},
		{degrees: -90, want: Rotate270},
		{degrees: 45, wantErr: true},
	}
	for _, c := range cases {
		got, err := ParseRotation(c.degrees)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseRotation(%d) = _, %v, wanted error %v", c.degrees, err, c.wantErr)
			continue
		}
		if !c.wantErr && got != c.want {
			t.Errorf("ParseRotation(%d) = %v, wanted %v", c.degrees, got, c.want)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.Scaling != Letterbox || o.Dithering != FloydSteinberg || o.Rotation != Rotate0 || o.FlipH || o.FlipV || o.CropX != nil || o.CropY != nil {
		t.Errorf("DefaultOptions() = %+v, wanted letterbox, floyd-steinberg, no transform", o)
	}
	if p := o.profile(); p != BoldProfile {
		t.Errorf("DefaultOptions().profile() = %+v, wanted %+v", p, BoldProfile)
	}
}
