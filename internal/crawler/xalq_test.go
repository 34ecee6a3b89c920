package crawler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "usdscan/depositworker/pkg/errors"
)

func TestXalqStrategyCanHandle(t *testing.T) {
	s := NewXalqStrategy(newFakeFetcher())
	assert.True(t, s.CanHandle("xb.uz"))
	assert.True(t, s.CanHandle("online.xb.uz"))
	assert.False(t, s.CanHandle("bank.example"))
}

func TestXalqStrategyExtract(t *testing.T) {
	f := newFakeFetcher()
	f.addJSON(DefaultXalqEndpoint, `[
		{"Omonat nomi": "Dollar omonati", "Yillik foiz": "7%", "Boshlang'ich badal miqdori": "100 AQSH dollari", "Boshqa shartlar": "muddat 12 oy"},
		{"Omonat nomi": "Milliy omonat", "Yillik foiz": "21%", "Boshlang'ich badal miqdori": "1 mln so'm", "Boshqa shartlar": ""},
		{"Omonat nomi": "DOLLAR OMONATI", "Yillik foiz": "7%", "Boshlang'ich badal miqdori": "100 AQSH dollari", "Boshqa shartlar": ""},
		{"Omonat nomi": "Mega foiz", "Yillik foiz": "45%", "Boshlang'ich badal miqdori": "500 usd", "Boshqa shartlar": ""},
		{"Omonat nomi": "Onlayn dollar", "Yillik foiz": 8.5, "Boshlang'ich badal miqdori": "50 usd", "Boshqa shartlar": ""}
	]`)

	records, err := NewXalqStrategy(f).Extract(context.Background(), "https://xb.uz/uz/deposits")
	require.NoError(t, err)

	require.Len(t, records, 2)

	assert.Equal(t, "Dollar omonati", records[0].Name)
	assert.InDelta(t, 0.07, records[0].Rate, 1e-9)
	assert.Equal(t, "Xalq banki", records[0].Bank)
	assert.Equal(t, "xb.uz", records[0].Site)
	assert.Equal(t, "USD", records[0].Currency)
	assert.Equal(t, "https://xb.uz/uz/deposits", records[0].SourceURL)

	// Numeric rate values come through the same percent parsing.
	assert.Equal(t, "Onlayn dollar", records[1].Name)
	assert.InDelta(t, 0.085, records[1].Rate, 1e-9)
}

func TestXalqStrategyRejectsNonJSONPayload(t *testing.T) {
	f := newFakeFetcher()
	f.addPage(DefaultXalqEndpoint, "<html>maintenance</html>")

	_, err := NewXalqStrategy(f).Extract(context.Background(), "https://xb.uz/")
	require.Error(t, err)

	var se *errs.SiteError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, errs.KindParse, se.Kind)
	assert.Equal(t, "xb.uz", se.Site)
}

func TestXalqStrategyFetchError(t *testing.T) {
	f := newFakeFetcher()
	f.fails[DefaultXalqEndpoint] = transientErr(DefaultXalqEndpoint)

	_, err := NewXalqStrategy(f).Extract(context.Background(), "https://xb.uz/")
	assert.Error(t, err)
}
