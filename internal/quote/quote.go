// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package quote is the Eastmoney push2 client. It fetches realtime
// quotes, klines and fund flow for A-share symbols. Callers are expected
// to put the cache in front of these operations via internal/fetch.
package quote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Kline period codes as push2 knows them.
const (
	PeriodDaily   = "101"
	PeriodWeekly  = "102"
	PeriodMonthly = "103"
)

// Market prefixes used in secids.
const (
	marketSH = "1"
	marketSZ = "0"
)

// push2 wants this token on every request.
const ut = "fa5fd1943c7b386f172d6893dbfba10b"

// Client talks to the Eastmoney push2 endpoints.
type Client struct {
	// BaseURL defaults to the public push2 host; tests point it at a
	// local server.
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a Client against the public push2 host.
func NewClient() *Client {
	return &Client{
		BaseURL: "https://push2.eastmoney.com",
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// MarketCode classifies a bare stock code into its exchange prefix.
// Shanghai: main board 60x, STAR 68x, B shares 90x, funds/convertibles.
// Everything else, Beijing included, routes through the Shenzhen prefix.
func MarketCode(code string) string {
	switch {
	case hasAnyPrefix(code, "60", "68", "90", "110", "113", "132", "204", "5"):
		return marketSH
	default:
		return marketSZ
	}
}

// Secid is the market-qualified code push2 expects, e.g. "1.600519".
func Secid(code string) string {
	return MarketCode(code) + "." + code
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Quote is one realtime snapshot. Prices arrive scaled by 100 and
// percentages by 100; both are normalized here.
type Quote struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePct     float64 `json:"change_pct"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	PrevClose     float64 `json:"prev_close"`
	VolumeLots    float64 `json:"volume_lots"`
	Turnover10k   float64 `json:"turnover_10k"`
	TurnoverRate  float64 `json:"turnover_rate"`
	Amplitude     float64 `json:"amplitude"`
	PERatio       float64 `json:"pe_ratio"`
	PBRatio       float64 `json:"pb_ratio"`
	MarketCap100M float64 `json:"market_cap_100m"`
	FloatCap100M  float64 `json:"float_cap_100m"`
}

// Bar is one kline row.
type Bar struct {
	Date      string  `json:"date"`
	Open      float64 `json:"open"`
	Close     float64 `json:"close"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Volume    int64   `json:"volume"`
	Turnover  float64 `json:"turnover"`
	Amplitude float64 `json:"amplitude"`
	ChangePct float64 `json:"change_pct"`
	Change    float64 `json:"change"`
	TurnRate  float64 `json:"turn_rate"`
}

// FundFlow is the intraday money-flow breakdown, in 万元 for amounts and
// percent for ratios.
type FundFlow struct {
	Code          string  `json:"code"`
	MainInflow    float64 `json:"main_inflow"`
	MainInflowPct float64 `json:"main_inflow_pct"`
	XLInflow      float64 `json:"xl_inflow"`
	XLInflowPct   float64 `json:"xl_inflow_pct"`
	LargeInflow   float64 `json:"large_inflow"`
	MediumInflow  float64 `json:"medium_inflow"`
	SmallInflow   float64 `json:"small_inflow"`
}

// Realtime fetches the current quote for one bare stock code.
func (c *Client) Realtime(ctx context.Context, code string) (Quote, error) {
	data, err := c.get(ctx, "/api/qt/stock/get", url.Values{
		"ut":     {ut},
		"fltt":   {"2"},
		"invt":   {"2"},
		"fields": {"f43,f44,f45,f46,f47,f48,f50,f57,f58,f60,f116,f117,f162,f167,f168,f169,f170,f171"},
		"secid":  {Secid(code)},
	})
	if err != nil {
		return Quote{}, err
	}

	if !data.Exists() || data.Type == gjson.Null {
		return Quote{}, fmt.Errorf("no data for stock %s", code)
	}

	q := Quote{
		Code:          data.Get("f57").String(),
		Name:          data.Get("f58").String(),
		Price:         normPrice(data.Get("f43")),
		High:          normPrice(data.Get("f44")),
		Low:           normPrice(data.Get("f45")),
		Open:          normPrice(data.Get("f46")),
		PrevClose:     normPrice(data.Get("f60")),
		Change:        normPrice(data.Get("f169")),
		ChangePct:     normPrice(data.Get("f170")),
		Amplitude:     normPrice(data.Get("f171")),
		VolumeLots:    data.Get("f47").Float() / 100,
		Turnover10k:   data.Get("f48").Float() / 10000,
		TurnoverRate:  normPrice(data.Get("f168")),
		PERatio:       normPrice(data.Get("f162")),
		PBRatio:       normPrice(data.Get("f167")),
		MarketCap100M: data.Get("f116").Float() / 1e8,
		FloatCap100M:  data.Get("f117").Float() / 1e8,
	}
	if q.Code == "" {
		q.Code = code
	}
	return q, nil
}

// Kline fetches up to count bars for the given period code.
func (c *Client) Kline(ctx context.Context, code, period string, count int) ([]Bar, error) {
	data, err := c.get(ctx, "/api/qt/stock/kline/get", url.Values{
		"secid":   {Secid(code)},
		"ut":      {ut},
		"fields1": {"f1,f2,f3,f4,f5,f6"},
		"fields2": {"f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61"},
		"klt":     {period},
		"fqt":     {"1"},
		"end":     {"20500101"},
		"lmt":     {strconv.Itoa(count)},
	})
	if err != nil {
		return nil, err
	}

	klines := data.Get("klines")
	if !klines.Exists() {
		return nil, fmt.Errorf("no kline data for stock %s", code)
	}

	var bars []Bar
	klines.ForEach(func(_, line gjson.Result) bool {
		if b, ok := parseBar(line.String()); ok {
			bars = append(bars, b)
		}
		return true
	})
	return bars, nil
}

// parseBar splits one comma-joined kline row:
// date,open,close,high,low,volume[,turnover,amplitude,pct,change,turnrate]
func parseBar(line string) (Bar, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 6 {
		return Bar{}, false
	}

	f := func(i int) float64 {
		if i >= len(parts) {
			return 0
		}
		v, _ := strconv.ParseFloat(parts[i], 64)
		return v
	}

	return Bar{
		Date:      parts[0],
		Open:      f(1),
		Close:     f(2),
		High:      f(3),
		Low:       f(4),
		Volume:    int64(f(5)),
		Turnover:  f(6),
		Amplitude: f(7),
		ChangePct: f(8),
		Change:    f(9),
		TurnRate:  f(10),
	}, true
}

// Flow fetches the intraday fund-flow snapshot.
func (c *Client) Flow(ctx context.Context, code string) (FundFlow, error) {
	data, err := c.get(ctx, "/api/qt/get", url.Values{
		"ut":     {ut},
		"fltt":   {"2"},
		"invt":   {"2"},
		"fields": {"f124,f125,f126,f127,f128,f129,f130,f131,f132,f133,f134,f135"},
		"secid":  {Secid(code)},
	})
	if err != nil {
		return FundFlow{}, err
	}

	if !data.Exists() || data.Type == gjson.Null {
		return FundFlow{}, fmt.Errorf("no fund flow data for stock %s", code)
	}

	return FundFlow{
		Code:          code,
		MainInflow:    data.Get("f124").Float() / 10000,
		MainInflowPct: data.Get("f125").Float() / 100,
		XLInflow:      data.Get("f126").Float() / 10000,
		XLInflowPct:   data.Get("f127").Float() / 100,
		LargeInflow:   data.Get("f128").Float() / 10000,
		MediumInflow:  data.Get("f130").Float() / 10000,
		SmallInflow:   data.Get("f132").Float() / 10000,
	}, nil
}

// get performs one push2 GET and returns the "data" element.
func (c *Client) get(ctx context.Context, path string, params url.Values) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("push2 returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid JSON response from push2")
	}

	return gjson.GetBytes(body, "data"), nil
}

// normPrice compensates for legacy endpoints that return price*100 even
// with fltt=2.
func normPrice(r gjson.Result) float64 {
	v := r.Float()
	if v >= 1000 || v <= -1000 {
		return v / 100
	}
	return v
}
