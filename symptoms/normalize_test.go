package symptoms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeToken(t *testing.T) {
	cases := map[string]string{
		"Back Pain":    "back_pain",
		"back-pain":    "back_pain",
		" BACK_PAIN ":  "back_pain",
		"cough":        "cough",
		"":             "",
		"   ":          "",
		"Skin  Rash":   "skin__rash",
		"Foo_Bar":      "foo_bar",
		"chest-pain x": "chest_pain_x",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeToken(in), "input %q", in)
	}
}

func TestNormalizeToken_Idempotent(t *testing.T) {
	for _, in := range []string{"Back Pain", " -a- ", "ÜBER fever", "x__y", "\tTabbed\t", "a - b"} {
		once := NormalizeToken(in)
		assert.Equal(t, once, NormalizeToken(once), "input %q", in)
	}
}

func TestNormalizeList(t *testing.T) {
	got := NormalizeList([]string{"Cough", " ", "cough", "High Fever", "high-fever", ""})
	assert.Equal(t, []string{"cough", "high_fever"}, got)
	assert.NotNil(t, NormalizeList(nil))
}

func TestCanonicalToken(t *testing.T) {
	assert.Equal(t, "skin_rash", canonicalToken(" skin  rash "))
	assert.Equal(t, "dischromic_patches", canonicalToken("_dischromic__patches_"))
	assert.Equal(t, "", canonicalToken("___"))
}

func TestNormalizeProse(t *testing.T) {
	assert.Equal(t, "i have a high fever 39 c", normalizeProse("  I have a HIGH-fever, (39°C)! "))
	assert.Equal(t, "", normalizeProse("?!"))
	// Full-width letters fold under NFKC.
	assert.Equal(t, "cough", normalizeProse("ｃｏｕｇｈ"))
}
