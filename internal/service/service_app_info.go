package service

import (
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/models"
)

type appInfoService struct {
	buildInfo models.AppBuildInfo

	logger *logger.Logger
}

func NewAppInfoService(buildVersion, buildDate, buildCommit string, logger *logger.Logger) (AppInfoService, error) {
	if buildVersion == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		buildInfo: models.NewAppBuildInfo(buildVersion, buildDate, buildCommit),
		logger:    logger,
	}, nil
}

func (s *appInfoService) BuildInfo() models.AppBuildInfo {
	return s.buildInfo
}

func (s *appInfoService) GetAppVersion() string {
	return s.buildInfo.BuildVersion()
}
