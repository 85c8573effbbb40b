package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/repository"
)

var _ repository.ExecutionClient = (*Judge0Client)(nil)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// maxErrorBodyBytes caps how much of an upstream error body is logged.
	maxErrorBodyBytes = 4 * 1024

	defaultHTTPTimeout = 10 * time.Second
)

// Options configures a Judge0Client.
type Options struct {
	BaseURL string
	// APIKey enables the RapidAPI headers when set.
	APIKey  string
	APIHost string
	Timeout time.Duration
}

// Judge0Client is an HTTP client for the Judge0 submissions API.
type Judge0Client struct {
	baseURL string
	apiKey  string
	apiHost string
	http    *http.Client
	logger  *zap.Logger
}

// NewJudge0Client creates a new Judge0 client.
func NewJudge0Client(opts Options, logger *zap.Logger) *Judge0Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Judge0Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		apiHost: opts.APIHost,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type submissionBody struct {
	LanguageID     int    `json:"language_id"`
	SourceCode     string `json:"source_code"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
	CPUTimeLimit   string `json:"cpu_time_limit"`
	MemoryLimit    string `json:"memory_limit"`
	WallTimeLimit  string `json:"wall_time_limit"`
}

type tokenBody struct {
	Token string `json:"token"`
}

type resultBody struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Message       *string `json:"message"`
	Time          *string `json:"time"`
	Memory        *int    `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Submit queues one execution and returns its token.
func (c *Judge0Client) Submit(ctx context.Context, req *domain.ExecutionRequest) (domain.ExecutionHandle, error) {
	if req == nil || req.LanguageID == 0 || strings.TrimSpace(req.SourceCode) == "" {
		return "", domain.ErrInvalidRequest
	}

	body, err := json.Marshal(encodeRequest(req))
	if err != nil {
		return "", fmt.Errorf("judge0: marshal submission: %w", err)
	}

	endpoint := c.baseURL + "/submissions?base64_encoded=false&wait=false"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("judge0: build submit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("judge0: submit: %w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errText := readErrorBody(resp.Body)
		c.logger.Warn("Judge0 rejected submission",
			zap.Int("status", resp.StatusCode),
			zap.String("body", errText),
		)
		return "", fmt.Errorf("judge0: submit: %w: %d %s", domain.ErrServiceUnavailable, resp.StatusCode, errText)
	}

	var tok tokenBody
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("judge0: decode token: %w: %v", domain.ErrServiceUnavailable, err)
	}
	if tok.Token == "" {
		return "", fmt.Errorf("judge0: empty token: %w", domain.ErrServiceUnavailable)
	}

	c.logger.Debug("Submitted execution to Judge0",
		zap.String("token", tok.Token),
		zap.Int("language_id", req.LanguageID),
	)
	return domain.ExecutionHandle(tok.Token), nil
}

// FetchResult retrieves the current state of an execution.
func (c *Judge0Client) FetchResult(ctx context.Context, handle domain.ExecutionHandle) (*domain.ExecutionResult, error) {
	if handle == "" {
		return nil, domain.ErrNotFound
	}

	endpoint := c.baseURL + "/submissions/" + url.PathEscape(string(handle)) + "?base64_encoded=false"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("judge0: build result request: %w", err)
	}
	c.setAuthHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("judge0: fetch result: %w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("judge0: token %s: %w", handle, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("judge0: fetch result: %w: %d %s",
			domain.ErrServiceUnavailable, resp.StatusCode, readErrorBody(resp.Body))
	}

	var rb resultBody
	if err := json.NewDecoder(resp.Body).Decode(&rb); err != nil {
		return nil, fmt.Errorf("judge0: decode result: %w: %v", domain.ErrServiceUnavailable, err)
	}
	return decodeResult(&rb), nil
}

func (c *Judge0Client) setAuthHeaders(req *http.Request) {
	if c.apiKey == "" {
		return
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	if c.apiHost != "" {
		req.Header.Set("X-RapidAPI-Host", c.apiHost)
	}
}

func encodeRequest(req *domain.ExecutionRequest) submissionBody {
	cpu := req.CPUTimeLimit
	if cpu <= 0 {
		cpu = domain.DefaultCPUTimeLimitSec
	}
	mem := req.MemoryLimit
	if mem <= 0 {
		mem = domain.DefaultMemoryLimitKB
	}
	wall := req.WallTimeLimit
	if wall <= 0 {
		wall = domain.DefaultWallTimeLimitSec
	}
	return submissionBody{
		LanguageID:     req.LanguageID,
		SourceCode:     req.SourceCode,
		Stdin:          req.Stdin,
		ExpectedOutput: req.ExpectedOutput,
		CPUTimeLimit:   formatSeconds(cpu),
		MemoryLimit:    strconv.Itoa(mem),
		WallTimeLimit:  formatSeconds(wall),
	}
}

// formatSeconds keeps one decimal for whole numbers ("2.0") and full
// precision otherwise ("0.25").
func formatSeconds(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func decodeResult(rb *resultBody) *domain.ExecutionResult {
	res := &domain.ExecutionResult{
		Status:        domain.StatusCode(rb.Status.ID),
		Stdout:        deref(rb.Stdout),
		Stderr:        deref(rb.Stderr),
		CompileOutput: deref(rb.CompileOutput),
		Message:       deref(rb.Message),
	}
	if rb.Time != nil {
		if secs, err := strconv.ParseFloat(*rb.Time, 64); err == nil {
			res.TimeMs = int(secs*1000 + 0.5)
		}
	}
	if rb.Memory != nil {
		res.MemoryKB = *rb.Memory
	}
	return res
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func readErrorBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	return strings.TrimSpace(string(b))
}
