package dashboard

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/gasmon/internal/chain"
	"github.com/Mohsinsiddi/gasmon/internal/fees"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error kinds shown on the page and returned by the API.
const (
	KindInvalidPeriod = "invalid_period"
	KindNetwork       = "network_error"
	KindAPI           = "api_error"
	KindData          = "data_error"
	KindSuperseded    = "superseded"
	KindInternal      = "internal_error"
)

// errorKind classifies err for display.
func errorKind(err error) string {
	switch {
	case errors.Is(err, fees.ErrInvalidPeriod):
		return KindInvalidPeriod
	case errors.Is(err, chain.ErrNetwork):
		return KindNetwork
	case errors.Is(err, chain.ErrAPI):
		return KindAPI
	case errors.Is(err, chain.ErrData):
		return KindData
	case errors.Is(err, ErrSuperseded):
		return KindSuperseded
	}
	return KindInternal
}

// statusFor maps an error kind to the API status code.
func statusFor(kind string) int {
	switch kind {
	case KindInvalidPeriod:
		return http.StatusBadRequest
	case KindNetwork, KindAPI, KindData:
		return http.StatusBadGateway
	case KindSuperseded:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

var noticeTitles = map[string]string{
	KindInvalidPeriod: "Invalid period",
	KindNetwork:       "Could not reach Etherscan",
	KindAPI:           "Etherscan returned an error",
	KindData:          "Unexpected data from Etherscan",
	KindInternal:      "Something went wrong",
}

type notice struct {
	Kind    string
	Title   string
	Message string
}

type pageView struct {
	Address   string
	Period    fees.Period
	Periods   []fees.Period
	Columns   []string
	Report    *fees.Report
	Chart     BarChart
	Notice    *notice
	Explorer  string
	Generated string
}

var templateFuncs = template.FuncMap{
	"f1":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"eth":  func(v float64) string { return fmt.Sprintf("%.8f", v) },
	"gwei": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

// cycle runs one report under the session's supersede tracking.
func (s *Server) cycle(c *gin.Context, address string, period fees.Period) (*fees.Report, error) {
	ctx, cy := s.tracker.Begin(c.Request.Context(), sessionID(c))
	defer s.tracker.End(cy)

	rep, err := s.svc.Report(ctx, address, period)
	if Superseded(ctx) {
		return nil, ErrSuperseded
	}
	return rep, err
}

func (s *Server) addressParam(c *gin.Context) string {
	if a := strings.TrimSpace(c.Query("address")); a != "" {
		return a
	}
	return s.opts.DefaultAddress
}

func (s *Server) index(c *gin.Context) {
	view := pageView{
		Address:  s.addressParam(c),
		Period:   fees.Days,
		Periods:  fees.Periods,
		Columns:  fees.Columns,
		Explorer: chain.TxURLPrefix,
	}

	period, err := fees.ParsePeriod(c.Query("period"))
	if err != nil {
		view.Notice = s.notice(c, err)
		c.HTML(http.StatusBadRequest, "index", view)
		return
	}
	view.Period = period

	rep, err := s.cycle(c, view.Address, period)
	if errors.Is(err, ErrSuperseded) {
		c.Status(http.StatusConflict)
		return
	}
	if err != nil {
		view.Notice = s.notice(c, err)
		c.HTML(http.StatusOK, "index", view)
		return
	}

	view.Report = rep
	view.Chart = NewBarChart(rep.Buckets)
	view.Generated = rep.GeneratedAt.Format("2006-01-02 15:04:05 MST")
	c.HTML(http.StatusOK, "index", view)
}

func (s *Server) report(c *gin.Context) {
	period, err := fees.ParsePeriod(c.Query("period"))
	if err != nil {
		s.abort(c, err)
		return
	}
	rep, err := s.cycle(c, s.addressParam(c), period)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) abort(c *gin.Context, err error) {
	kind := errorKind(err)
	s.logFailure(c, kind, err)
	c.AbortWithStatusJSON(statusFor(kind), errorBody{Error: kind, Message: err.Error()})
}

func (s *Server) notice(c *gin.Context, err error) *notice {
	kind := errorKind(err)
	s.logFailure(c, kind, err)
	return &notice{Kind: kind, Title: noticeTitles[kind], Message: err.Error()}
}

func (s *Server) logFailure(c *gin.Context, kind string, err error) {
	if kind == KindSuperseded {
		s.log.Debug("cycle superseded", zap.String("correlation_id", GetCorrelationID(c)))
		return
	}
	s.log.Warn("report failed",
		zap.String("correlation_id", GetCorrelationID(c)),
		zap.String("kind", kind),
		zap.Error(err),
	)
}
