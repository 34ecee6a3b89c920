package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUSDContext(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"plain usd", "rate 7% for USD deposits", true},
		{"dollar word", "dollar savings account", true},
		{"dollar sign", "from $100", true},
		{"cyrillic dollar", "вклад в долларах", true},
		{"uzbek dollar", "aqsh dollari omonati", true},
		{"non-usd only", "rate 7% for UZS (sum) deposits", false},
		{"usd beats non-usd marker", "USD and UZS options available", true},
		{"cyrillic sum only", "ставка 21% в сумах", false},
		{"no currency at all", "annual interest rate", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUSDContext(tt.in))
		})
	}
}

func TestPageForcedUSD(t *testing.T) {
	tests := []struct {
		name string
		url  string
		text string
		want bool
	}{
		{"currency query param", "https://bank.example/deposits?currency=USD", "", true},
		{"valyuta query param", "https://bank.example/omonat?valyuta=usd", "", true},
		{"usd in path", "https://bank.example/deposits/usd", "", true},
		{"standalone usd token in text", "https://bank.example/deposits", "rates for usd deposits", true},
		{"usd token with non-usd marker", "https://bank.example/deposits", "usd and uzs deposits", false},
		{"no markers anywhere", "https://bank.example/deposits", "welcome to our bank", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageForcedUSD(tt.url, tt.text))
		})
	}
}
