package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/greenledger/carbon_ledger/internal/domain"
)

// Settings 公司画像设置存储，独立于台账的 JSON 文件，
// 只通过显式的保存动作写入。
type Settings struct {
	mu   sync.RWMutex
	path string
	log  *log.Helper
}

// NewSettings 创建设置存储
func NewSettings(path string, logger log.Logger) *Settings {
	return &Settings{path: path, log: log.NewHelper(logger)}
}

// Load 读取公司画像。文件不存在返回零值画像；
// 文件损坏时改名保全并返回零值画像，与台账同样不静默丢数据。
func (s *Settings) Load() (domain.CompanyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return domain.CompanyProfile{}, nil
	}
	if err != nil {
		return domain.CompanyProfile{}, fmt.Errorf("read settings: %w", err)
	}

	var profile domain.CompanyProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		backup := s.path + ".broken"
		if renameErr := os.Rename(s.path, backup); renameErr == nil {
			s.log.Warnf("设置文件损坏，已改名保全至 %s: %v", backup, err)
		}
		return domain.CompanyProfile{}, nil
	}
	return profile, nil
}

// Save 写入公司画像，临时文件 + rename 原子发布
func (s *Settings) Save(profile domain.CompanyProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish settings: %w", err)
	}
	return nil
}
