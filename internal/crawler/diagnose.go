package crawler

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"usdscan/depositworker/helpers"
)

// Signal tags recorded as evidence of bot-defense or thin-content conditions.
// Signals are advisory and not mutually exclusive.
const (
	SignalCloudflare    = "cloudflare"
	SignalSucuri        = "sucuri"
	SignalAntibotCookie = "antibot_cookie"
	SignalAntibotPage   = "antibot_page"
	SignalThinHTML      = "thin_html_or_js_shell"
)

// diagnoseBodyLimit bounds how much of the body is scanned for anti-bot phrases.
const diagnoseBodyLimit = 20000

// jsEmptyMinLen is the body length below which a 200 page counts as JS-empty.
const jsEmptyMinLen = 1500

var (
	antiCookieRe = regexp.MustCompile(`(?i)(cf_clearance|__cf_bm|_abck|bm_sz|ak_bmsc)`)
	antiBodyRe   = regexp.MustCompile(`(?i)(captcha|hcaptcha|recaptcha|checking your browser|just a moment|access denied|request blocked|cf-challenge|challenge-platform|enable javascript|javascript required)`)
	jsShellRe    = regexp.MustCompile(`(?i)(<div[^>]+id=['"]app['"][^>]*>|<div[^>]+id=['"]root['"][^>]*>)`)
)

var blockStatuses = map[int]bool{401: true, 403: true, 429: true, 503: true}

// Diagnosis describes a fetched page's bot-defense posture.
type Diagnosis struct {
	Status  int
	Signals []string
}

// Diagnose inspects status, headers, cookies and the leading part of the body
// and records every matching signal. Rules are evaluated independently.
func Diagnose(resp *helpers.Response) Diagnosis {
	d := Diagnosis{Status: resp.StatusCode}

	if blockStatuses[resp.StatusCode] {
		d.Signals = append(d.Signals, fmt.Sprintf("status=%d", resp.StatusCode))
	}

	server := strings.ToLower(resp.Header.Get("Server"))
	if resp.Header.Get("Cf-Ray") != "" || strings.Contains(server, "cloudflare") {
		d.Signals = append(d.Signals, SignalCloudflare)
	}

	if resp.Header.Get("X-Sucuri-Id") != "" || resp.Header.Get("X-Sucuri-Cache") != "" {
		d.Signals = append(d.Signals, SignalSucuri)
	}

	if antiCookieRe.MatchString(resp.CookieBlob()) {
		d.Signals = append(d.Signals, SignalAntibotCookie)
	}

	if antiBodyRe.MatchString(helpers.Truncate(resp.Body, diagnoseBodyLimit)) {
		d.Signals = append(d.Signals, SignalAntibotPage)
	}

	if resp.StatusCode == 200 && LooksJSEmpty(resp.Body) {
		d.Signals = append(d.Signals, SignalThinHTML)
	}

	return d
}

// Has reports whether a signal was recorded.
func (d Diagnosis) Has(signal string) bool {
	for _, s := range d.Signals {
		if s == signal {
			return true
		}
	}
	return false
}

// SignalString joins the recorded signals for reporting.
func (d Diagnosis) SignalString() string {
	return strings.Join(d.Signals, ",")
}

// HardBlock reports whether the site actively refused automated access. A
// blocking status is conclusive on its own; WAF evidence alone is not and
// must co-occur with an explicit anti-bot marker, since a cf-ray header is
// normal for any Cloudflare-proxied site.
func (d Diagnosis) HardBlock() bool {
	if blockStatuses[d.Status] {
		return true
	}
	waf := d.Has(SignalCloudflare) || d.Has(SignalSucuri)
	antibot := d.Has(SignalAntibotCookie) || d.Has(SignalAntibotPage)
	return waf && antibot
}

// LooksJSEmpty reports whether a page body is effectively empty without
// JavaScript rendering: too short, or a bare SPA root mount with neither a
// percent sign nor a USD marker anywhere in the markup.
func LooksJSEmpty(body string) bool {
	t := strings.TrimSpace(body)
	if utf8.RuneCountInString(t) < jsEmptyMinLen {
		return true
	}
	if jsShellRe.MatchString(t) && !strings.Contains(t, "%") && !strings.Contains(strings.ToLower(t), "usd") {
		return true
	}
	return false
}
