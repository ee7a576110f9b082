package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalURLStripsTracking(t *testing.T) {
	in := "https://ReliefWeb.int/job/4112233?utm_source=rss&utm_medium=feed&lang=en#apply"
	require.Equal(t, "https://reliefweb.int/job/4112233?lang=en", CanonicalURL(in))
}

func TestCanonicalURLStableQueryOrder(t *testing.T) {
	a := CanonicalURL("https://unjobs.org/vacancies/1?b=2&a=1")
	b := CanonicalURL("https://unjobs.org/vacancies/1?a=1&b=2")
	require.Equal(t, a, b)
}

func TestCanonicalURLEmpty(t *testing.T) {
	require.Equal(t, "", CanonicalURL("   "))
}

func TestCleanTextSqueezesWhitespace(t *testing.T) {
	require.Equal(t, "M&E Officer", CleanText("  M&E  \n Officer "))
}

func TestNormalizeLocationDropsDuplicateParts(t *testing.T) {
	require.Equal(t, "Nairobi, Kenya", NormalizeLocation(" Nairobi , Kenya, kenya "))
}
