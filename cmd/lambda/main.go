// Package main runs the submission handler as a function behind an HTTP
// gateway. Every path is treated as the submission endpoint.
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/xavierca1/landing-leads/internal/app"
	"github.com/xavierca1/landing-leads/internal/config"
	"github.com/xavierca1/landing-leads/internal/infra/http/handlers"
	"github.com/xavierca1/landing-leads/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Env, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	uc, _ := app.NewCaptureLead(cfg, log)
	h := http.HandlerFunc(handlers.NewLeadHandler(uc, log).Submit)

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		resp := handle(ctx, h, evt)
		log.Info("function invocation",
			zap.String("request_id", evt.RequestContext.RequestID),
			zap.String("method", evt.RequestContext.HTTP.Method),
			zap.Int("status", resp.StatusCode),
		)
		return resp, nil
	})
}

// responseMargin is kept free at the end of an invocation so the 200 is
// written before the platform deadline, however slow the CRM is.
const responseMargin = 500 * time.Millisecond

func handle(ctx context.Context, h http.Handler, evt events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline.Add(-responseMargin))
		defer cancel()
	}

	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = "/"
	}

	if method == http.MethodGet && (path == "/health" || path == "/_health") {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Body: "ok"}
	}

	body, err := decodeBody(evt)
	if err != nil {
		return jsonResponse(http.StatusBadRequest, `{"error":"INVALID_BODY","message":"body is not valid base64"}`)
	}

	req, err := http.NewRequestWithContext(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return jsonResponse(http.StatusBadRequest, `{"error":"INVALID_REQUEST"}`)
	}
	for k, v := range evt.Headers {
		req.Header.Set(k, v)
	}

	rw := newBufferedResponse()
	h.ServeHTTP(rw, req)

	out := events.APIGatewayV2HTTPResponse{
		StatusCode: rw.status,
		Body:       rw.body.String(),
		Headers:    map[string]string{},
	}
	for k := range rw.header {
		out.Headers[strings.ToLower(k)] = rw.header.Get(k)
	}
	return out
}

func jsonResponse(status int, body string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       body,
		Headers:    map[string]string{"content-type": "application/json"},
	}
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}

// bufferedResponse collects what the handler writes so it can be returned
// as a gateway response.
type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	status int
	wrote  bool
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: http.Header{}, status: http.StatusOK}
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) WriteHeader(status int) {
	if b.wrote {
		return
	}
	b.status = status
	b.wrote = true
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	b.wrote = true
	return b.body.Write(p)
}

var _ http.ResponseWriter = (*bufferedResponse)(nil)
