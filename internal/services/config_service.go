package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/run-bigpig/pensionpal/internal/logger"
	"github.com/run-bigpig/pensionpal/internal/models"
	"github.com/run-bigpig/pensionpal/internal/pkg/paths"
)

var configLog = logger.New("Config")

// configFileName 配置文件名
const configFileName = "config.json"

// ConfigService 应用配置服务
// 配置持久化为用户配置目录下的 JSON 文件，读取失败时回落默认配置
type ConfigService struct {
	mu     sync.RWMutex
	config models.AppConfig
	path   string
}

// NewConfigService 创建配置服务并加载已有配置
func NewConfigService() *ConfigService {
	s := &ConfigService{
		config: models.DefaultAppConfig(),
		path:   filepath.Join(paths.EnsureDataDir(), configFileName),
	}
	s.load()
	return s
}

// load 从磁盘加载配置
func (s *ConfigService) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var config models.AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		configLog.Warn("配置文件解析失败，使用默认配置: %v", err)
		return
	}
	s.config = config
}

// save 将配置写回磁盘
func (s *ConfigService) save() error {
	data, err := json.MarshalIndent(s.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Get 返回当前配置副本
func (s *ConfigService) Get() models.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Update 整体更新配置并持久化
func (s *ConfigService) Update(config models.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = config
	return s.save()
}

// SetProfile 更新本地缓存的用户画像并持久化
func (s *ConfigService) SetProfile(profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.Profile = profile
	return s.save()
}

// Profile 返回本地缓存的用户画像，可能为 nil
func (s *ConfigService) Profile() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Profile
}
