// Package molit implements the trade-record source against the MOLIT
// apt-trade open API. The payload is tolerant-parsed: field names vary
// between Korean and English across deployments of apis.data.go.kr, amounts
// carry commas, and year/month sometimes only exist inside DEAL_YMD.
package molit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"HomePulse/internal/domain/models"
	domrepo "HomePulse/internal/domain/repository"
	xhttp "HomePulse/pkg/http"
	xlogger "HomePulse/pkg/logger"
	"HomePulse/pkg/ratelimit"
	"HomePulse/pkg/util"
)

// Client implements repository.TradeRecordSource.
type Client struct {
	baseURL      string
	aptTradePath string
	serviceKey   string
	http         *xhttp.Client
	limiter      *ratelimit.Limiter
	rateCapacity float64
	ratePerSec   float64
	logger       *xlogger.Logger
	metrics      domrepo.Metrics
}

// Option configures Client.
type Option func(*Client)

// WithRateLimit gates outbound calls through a token bucket. Zero capacity
// disables the gate.
func WithRateLimit(l *ratelimit.Limiter, capacity, perSec float64) Option {
	return func(c *Client) {
		c.limiter = l
		c.rateCapacity = capacity
		c.ratePerSec = perSec
	}
}

// WithLogger attaches a logger.
func WithLogger(l *xlogger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics records call outcomes.
func WithMetrics(m domrepo.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a MOLIT apt-trade client.
func New(baseURL, aptTradePath, serviceKey string, http *xhttp.Client, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		aptTradePath: aptTradePath,
		serviceKey:   serviceKey,
		http:         http,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Response struct {
		Body struct {
			Items struct {
				Item json.RawMessage `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// Fetch returns one page of monthly trade records for a region. period is
// YYYYMM, page is 1-based. An empty slice means no data; errors mean the
// upstream was unreachable or the payload did not parse.
func (c *Client) Fetch(ctx context.Context, regionCode, period string, page, size int) ([]models.TradeRecord, error) {
	if c.serviceKey == "" {
		return nil, fmt.Errorf("molit service key is not configured")
	}
	if c.limiter != nil && c.rateCapacity > 0 {
		if !c.limiter.Allow("molit", c.rateCapacity, c.ratePerSec) {
			return nil, fmt.Errorf("molit rate limit exceeded")
		}
	}

	var raw []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + c.aptTradePath,
		QueryParams: map[string][]string{
			"serviceKey": {c.serviceKey},
			"LAWD_CD":    {regionCode},
			"DEAL_YMD":   {period},
			"_type":      {"json"},
			"pageNo":     {strconv.Itoa(page)},
			"numOfRows":  {strconv.Itoa(size)},
		},
	}, &raw)
	if c.metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		c.metrics.RecordUpstreamCall("molit", result)
	}
	if err != nil {
		// transport errors can echo the full URL; keep the key out of logs
		err = fmt.Errorf("molit fetch %s/%s: %s", regionCode, period,
			strings.ReplaceAll(err.Error(), c.serviceKey, "***"))
		if c.logger != nil {
			c.logger.Warn("molit fetch failed",
				xlogger.String("region", regionCode),
				xlogger.String("period", period),
				xlogger.Int("page", page),
				xlogger.Error(err))
		}
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("molit parse: %w", err)
	}

	items := env.Response.Body.Items.Item
	if len(items) == 0 || string(items) == "null" || string(items) == `""` {
		return nil, nil
	}

	// "item" is an array normally, a bare object for single-row months
	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(items, &rows); err != nil {
		var one map[string]json.RawMessage
		if err := json.Unmarshal(items, &one); err != nil {
			return nil, fmt.Errorf("molit parse items: %w", err)
		}
		rows = append(rows, one)
	}

	out := make([]models.TradeRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapRecord(row))
	}
	return out, nil
}

func mapRecord(n map[string]json.RawMessage) models.TradeRecord {
	r := models.TradeRecord{
		DealAmount:      util.CleanAmount(asText(n, "거래금액", "dealAmount", "DEAL_AMT", "deal_amt")),
		BuildYear:       asText(n, "건축년도", "buildYear"),
		AptName:         asText(n, "아파트", "aptName", "aptNm", "APT_NAME"),
		ExclusiveAreaM2: util.ParseFloatZero(asText(n, "전용면적", "excluUseAr", "exclusiveArea", "EXCLUSE_AR")),
		Floor:           util.ParseIntZero(asText(n, "층", "floor")),
		Dong:            asText(n, "법정동", "dong", "legalDong", "umdNm"),
		Jibun:           asText(n, "지번", "jibun"),
		RoadName:        asText(n, "도로명", "roadName"),
		RegionCode:      asText(n, "지역코드", "LAWD_CD", "lawdCd", "sggCd"),
		SerialNo:        asText(n, "일련번호", "serialNo"),
	}
	r.DealYear = util.ParseIntZero(asText(n, "년", "year", "dealYear", "DEAL_YEAR"))
	r.DealMonth = util.ParseIntZero(asText(n, "월", "month", "dealMonth", "DEAL_MONTH"))
	r.DealDay = util.ParseIntZero(asText(n, "일", "day", "dealDay", "DEAL_DAY"))

	// derive year/month from DEAL_YMD when missing
	if r.DealYear == 0 || r.DealMonth == 0 {
		if ymd := asText(n, "DEAL_YMD", "dealYmd", "ymd"); len(ymd) >= 6 {
			if r.DealYear == 0 {
				r.DealYear = util.ParseIntZero(ymd[:4])
			}
			if r.DealMonth == 0 {
				r.DealMonth = util.ParseIntZero(ymd[4:6])
			}
		}
	}
	return r
}

// asText returns the first present key as a string. Values arrive as either
// JSON strings or bare numbers.
func asText(n map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := n[k]
		if !ok || len(v) == 0 || string(v) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
		var f json.Number
		if err := json.Unmarshal(v, &f); err == nil {
			return f.String()
		}
	}
	return ""
}
