package main

import (
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/cadrisk/internal/model"
	"github.com/Skufu/cadrisk/internal/observability"
	"github.com/Skufu/cadrisk/internal/predict"
)

type Predictor interface {
	Predict(form url.Values) (predict.Result, error)
}

type ModelInfo interface {
	Summary() model.Summary
}

type api struct {
	predictor Predictor
	model     ModelInfo
	metrics   *observability.Metrics
	logger    *zap.Logger
}

func setupRouter(a *api, staticRoot string, allowedOrigins []string) *gin.Engine {
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	router := gin.New()
	router.Use(
		requestLogger(a.logger),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", requestIDHeader},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.StaticFile("/", filepath.Join(staticRoot, "index.html"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if a.model == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "model": "not loaded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"model":  a.model.Summary(),
		})
	})

	if a.metrics != nil {
		router.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	}

	router.POST("/predict", a.handlePredict)

	return router
}

func (a *api) handlePredict(c *gin.Context) {
	start := time.Now()

	form, err := postForm(c)
	if err != nil {
		a.reject(c, http.StatusBadRequest, "bad_form", err, start)
		return
	}

	result, err := a.predictor.Predict(form)
	if err != nil {
		if predict.IsValidation(err) {
			a.reject(c, http.StatusBadRequest, errorReason(err), err, start)
			return
		}
		a.reject(c, http.StatusInternalServerError, "internal", err, start)
		return
	}

	if a.metrics != nil {
		a.metrics.ObservePrediction(result.Interpretation, result.Cached, time.Since(start))
	}
	c.JSON(http.StatusOK, result)
}

func (a *api) reject(c *gin.Context, status int, reason string, err error, start time.Time) {
	_ = c.Error(err)
	if a.metrics != nil {
		a.metrics.ObserveError(reason, time.Since(start))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// postForm accepts both URL-encoded and multipart submissions.
func postForm(c *gin.Context) (url.Values, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		return url.Values(mf.Value), nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.Request.PostForm, nil
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, predict.ErrMissingField):
		return "missing_field"
	case errors.Is(err, predict.ErrInvalidNumber):
		return "invalid_number"
	case errors.Is(err, model.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, model.ErrNonFinite):
		return "non_finite"
	case errors.Is(err, model.ErrSchemaMismatch):
		return "schema_mismatch"
	default:
		return "validation"
	}
}
