package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is implemented by the API server. Parameters arrive
// already bound and typed.
type ServerInterface interface {
	// SearchPatents handles GET and POST /v1/search.
	SearchPatents(w http.ResponseWriter, r *http.Request, params SearchPatentsParams)
	// GetPatent handles GET /v1/patents/{id}.
	GetPatent(w http.ResponseWriter, r *http.Request, id PatentID)
	// HealthCheck handles GET /health.
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// Metrics handles GET /metrics.
	Metrics(w http.ResponseWriter, r *http.Request)
}

// ChiServerOptions configures route registration.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// HandlerWithOptions registers every route of si on options.BaseRouter.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	errorHandler := options.ErrorHandlerFunc
	if errorHandler == nil {
		errorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}

	wrapper := &serverWrapper{handler: si, errorHandler: errorHandler}

	r.Get("/health", si.HealthCheck)
	r.Get("/metrics", si.Metrics)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", wrapper.SearchPatents)
		r.Post("/search", wrapper.SearchPatents)
		r.Get("/patents/{id}", wrapper.GetPatent)
	})
	return r
}

type serverWrapper struct {
	handler      ServerInterface
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *serverWrapper) SearchPatents(w http.ResponseWriter, r *http.Request) {
	var params SearchPatentsParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "q", query, &params.Q); err != nil {
		siw.errorHandler(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "k", query, &params.K); err != nil {
		siw.errorHandler(w, r, &InvalidParamFormatError{ParamName: "k", Err: err})
		return
	}

	siw.handler.SearchPatents(w, r, params)
}

func (siw *serverWrapper) GetPatent(w http.ResponseWriter, r *http.Request) {
	var id PatentID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		siw.errorHandler(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return
	}

	siw.handler.GetPatent(w, r, id)
}
