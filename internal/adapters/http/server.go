package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	api "neurasec/internal/api"
	"neurasec/internal/domain"
	"neurasec/internal/logger"
	"neurasec/internal/ports"
)

const healthTimeout = 2 * time.Second

// Server implements the generated StrictServerInterface.
type Server struct {
	scanner    ports.Scanner
	feedback   ports.Feedback
	health     ports.Health
	trustProxy bool
}

var _ api.StrictServerInterface = (*Server)(nil)

func New(scanner ports.Scanner, feedback ports.Feedback, health ports.Health, trustProxy bool) *Server {
	return &Server{scanner: scanner, feedback: feedback, health: health, trustProxy: trustProxy}
}

// Routes returns a chi.Router mounting the generated handlers.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(Identity)

	handler := api.NewStrictHandlerWithOptions(s, nil, api.StrictHTTPServerOptions{
		RequestErrorHandlerFunc:  badRequest,
		ResponseErrorHandlerFunc: internalError,
	})
	api.HandlerWithOptions(handler, api.ChiServerOptions{BaseRouter: r, ErrorHandlerFunc: badRequest})
	return r
}

func (s *Server) GetHealthz(ctx context.Context, _ api.GetHealthzRequestObject) (api.GetHealthzResponseObject, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := s.health.Ping(ctx); err != nil {
		logger.FromContext(ctx).Error("storage ping failed", slog.Any("error", err))
		return api.GetHealthz503JSONResponse{Status: "unavailable"}, nil
	}
	return api.GetHealthz200JSONResponse{Status: "ok"}, nil
}

// PostScanUrl answers invalid URLs with 200 and an Error-shaped result so the
// extension can render the reason inline. An unreachable reputation service
// yields 502 with the Error result and whatever local details were found.
func (s *Server) PostScanUrl(ctx context.Context, req api.PostScanUrlRequestObject) (api.PostScanUrlResponseObject, error) {
	res, err := s.scan(ctx, req.Body)
	switch {
	case err == nil, domain.IsValidation(err):
		return api.PostScanUrl200JSONResponse(toAPIResult(res)), nil
	case errors.Is(err, domain.ErrRateLimited):
		return api.PostScanUrl429JSONResponse{Error: res.Explanation}, nil
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return api.PostScanUrl502JSONResponse(toAPIResult(res)), nil
	default:
		logger.FromContext(ctx).Error("scan failed", slog.Any("error", err))
		return api.PostScanUrl500JSONResponse{Error: "internal error"}, nil
	}
}

func (s *Server) PostAnalyzeUrl(ctx context.Context, req api.PostAnalyzeUrlRequestObject) (api.PostAnalyzeUrlResponseObject, error) {
	res, err := s.scan(ctx, req.Body)
	switch {
	case err == nil:
		return api.PostAnalyzeUrl200JSONResponse(toAPIAnalyze(res)), nil
	case domain.IsValidation(err):
		return api.PostAnalyzeUrl400JSONResponse{Error: err.Error()}, nil
	case errors.Is(err, domain.ErrRateLimited):
		return api.PostAnalyzeUrl429JSONResponse{Error: res.Explanation}, nil
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return api.PostAnalyzeUrl502JSONResponse(toAPIAnalyze(res)), nil
	default:
		logger.FromContext(ctx).Error("analyze failed", slog.Any("error", err))
		return api.PostAnalyzeUrl500JSONResponse{Error: "internal error"}, nil
	}
}

func (s *Server) scan(ctx context.Context, body *api.ScanRequest) (domain.ScanResult, error) {
	var raw string
	if body != nil {
		raw = body.Url
	}
	id := identityFrom(ctx)
	return s.scanner.Scan(ctx, ports.ScanRequest{URL: raw, ClientKey: id.clientKey, UserID: id.userID})
}

func (s *Server) GetScanHistory(ctx context.Context, req api.GetScanHistoryRequestObject) (api.GetScanHistoryResponseObject, error) {
	limit := 0
	if req.Params.Limit != nil {
		limit = *req.Params.Limit
	}
	entries, err := s.scanner.History(ctx, req.Params.Url, limit)
	if err != nil {
		if domain.IsValidation(err) {
			return api.GetScanHistory400JSONResponse{Error: err.Error()}, nil
		}
		logger.FromContext(ctx).Error("history read failed", slog.Any("error", err))
		return api.GetScanHistory500JSONResponse{Error: "internal error"}, nil
	}
	url := req.Params.Url
	if len(entries) > 0 {
		url = entries[0].URL
	}
	return api.GetScanHistory200JSONResponse(toAPIHistory(url, entries)), nil
}

func (s *Server) GetUrlFeedback(ctx context.Context, req api.GetUrlFeedbackRequestObject) (api.GetUrlFeedbackResponseObject, error) {
	sum, err := s.feedback.Summary(ctx, req.Params.Url)
	if err != nil {
		if domain.IsValidation(err) {
			return api.GetUrlFeedback400JSONResponse{Error: err.Error()}, nil
		}
		logger.FromContext(ctx).Error("feedback read failed", slog.Any("error", err))
		return api.GetUrlFeedback500JSONResponse{Error: "internal error"}, nil
	}
	return api.GetUrlFeedback200JSONResponse(toAPIFeedback(sum)), nil
}

func (s *Server) PostUrlFeedback(ctx context.Context, req api.PostUrlFeedbackRequestObject) (api.PostUrlFeedbackResponseObject, error) {
	if req.Body == nil {
		return api.PostUrlFeedback400JSONResponse{Error: "missing body"}, nil
	}
	vote := domain.FeedbackVote{
		URL:         req.Body.Url,
		UserVerdict: domain.Verdict(req.Body.UserVerdict),
		UserID:      identityFrom(ctx).userID,
	}
	if req.Body.OriginalVerdict != nil {
		vote.OriginalVerdict = domain.Verdict(*req.Body.OriginalVerdict)
	}
	if req.Body.Comment != nil {
		vote.Comment = *req.Body.Comment
	}
	sum, err := s.feedback.Submit(ctx, vote)
	if err != nil {
		if domain.IsValidation(err) {
			return api.PostUrlFeedback400JSONResponse{Error: err.Error()}, nil
		}
		logger.FromContext(ctx).Error("feedback write failed", slog.Any("error", err))
		return api.PostUrlFeedback500JSONResponse{Error: "internal error"}, nil
	}
	return api.PostUrlFeedback200JSONResponse(toAPIFeedback(sum)), nil
}

func badRequest(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, err.Error())
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Error("response failed", slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(api.Error{Error: msg})
}
