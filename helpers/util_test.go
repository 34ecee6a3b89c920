package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeSpace("  a \t b\n\nc "))
	assert.Equal(t, "", NormalizeSpace("   \n\t "))
	assert.Equal(t, "", NormalizeSpace(""))
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "bank.example", DomainOf("https://www.Bank.Example/deposits?x=1"))
	assert.Equal(t, "bank.example", DomainOf("http://bank.example"))
	assert.Equal(t, "xb.uz", DomainOf("https://xb.uz/uz/private/deposits"))
	assert.Equal(t, "", DomainOf("://not a url"))
}

func TestSameDomain(t *testing.T) {
	assert.True(t, SameDomain("https://www.bank.example/", "http://bank.example/deposits"))
	assert.False(t, SameDomain("https://bank.example/", "https://other.example/"))
	assert.False(t, SameDomain("not-a-url", "also-not"))
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://bank.example/deposits", ResolveURL("https://bank.example/home", "/deposits"))
	assert.Equal(t, "https://bank.example/a/b", ResolveURL("https://bank.example/a/", "b"))
	assert.Equal(t, "https://other.example/x", ResolveURL("https://bank.example/", "https://other.example/x"))
	assert.Equal(t, "https://bank.example/deposits", ResolveURL("https://bank.example/", "  /deposits  "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abcde", 2))
	assert.Equal(t, "долл", Truncate("долларах", 4))
	assert.Equal(t, "", Truncate("", 3))
}
