package testtool

import (
	"net/http"
	_ "net/http/pprof" // 匯入後會自動註冊 pprof endpoint

	"classifieds_service/pkg/config"
	"classifieds_service/pkg/logger"

	"go.uber.org/zap"
)

// StartPprof serve pprof on :6060 unless ENV=production
// curl http://localhost:6060/debug/pprof/
func StartPprof() {
	if config.IsProduction() {
		logger.Log.Info("Production environment detected, pprof is disabled.")
		return
	}

	go func() {
		logger.Log.Info("Starting pprof server on :6060")
		if err := http.ListenAndServe("127.0.0.1:6060", nil); err != nil {
			logger.Log.Warn("pprof server failed", zap.Error(err))
		}
	}()
}
