// Package store 提供台账与设置的平面文件持久化。
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/greenledger/carbon_ledger/internal/domain"
)

// Ledger 排放台账存储。内存持有全量记录，每次成功写入都落盘；
// 落盘采用临时文件 + rename 的原子发布，读方不会观察到写到一半的集合。
type Ledger struct {
	mu      sync.RWMutex
	path    string
	entries []domain.EmissionEntry
	log     *log.Helper

	// recoveredFrom 非空时表示启动加载曾发现损坏文件并已重命名保全
	recoveredFrom string
}

// OpenLedger 打开台账文件。文件不存在视为空台账；
// 文件损坏时不静默失败：告警、把原文件带时间戳改名保全，然后以空台账启动。
func OpenLedger(path string, logger log.Logger) (*Ledger, error) {
	l := &Ledger{path: path, log: log.NewHelper(logger)}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}

	var entries []domain.EmissionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		backup := fmt.Sprintf("%s.broken.%s", path, time.Now().Format("20060102150405"))
		if renameErr := os.Rename(path, backup); renameErr != nil {
			return nil, fmt.Errorf("ledger file is corrupt and could not be set aside: %w", renameErr)
		}
		l.recoveredFrom = backup
		l.log.Warnf("台账文件损坏，已改名保全至 %s，以空台账启动: %v", backup, err)
		return l, nil
	}

	// 派生字段在每次读入时重算，文件里的值不可信
	for i := range entries {
		entries[i].Recompute()
	}
	l.entries = entries
	return l, nil
}

// RecoveredFrom 返回损坏文件被改名保全后的路径，未发生恢复时为空串
func (l *Ledger) RecoveredFrom() string {
	return l.recoveredFrom
}

// Append 追加一条记录并落盘，返回记录 ID
func (l *Ledger) Append(entry domain.EmissionEntry) (string, error) {
	entry.Recompute()

	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]domain.EmissionEntry, len(l.entries), len(l.entries)+1)
	copy(next, l.entries)
	next = append(next, entry)

	if err := l.persist(next); err != nil {
		return "", err
	}
	l.entries = next
	return entry.ID, nil
}

// LoadAll 返回全量记录的副本，保持插入顺序
func (l *Ledger) LoadAll() []domain.EmissionEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.EmissionEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// ReplaceAll 整体替换台账（CSV 批量导入用）。
// 新集合完整落盘成功后才替换内存，失败时旧内容原样保留。
func (l *Ledger) ReplaceAll(entries []domain.EmissionEntry) error {
	next := make([]domain.EmissionEntry, len(entries))
	copy(next, entries)
	for i := range next {
		next[i].Recompute()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.persist(next); err != nil {
		return err
	}
	l.entries = next
	return nil
}

// Update 按 ID 覆盖一条既有记录（显式编辑重存）
func (l *Ledger) Update(entry domain.EmissionEntry) error {
	entry.Recompute()

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.entries {
		if l.entries[i].ID == entry.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("entry %s not found", entry.ID)
	}

	next := make([]domain.EmissionEntry, len(l.entries))
	copy(next, l.entries)
	next[idx] = entry

	if err := l.persist(next); err != nil {
		return err
	}
	l.entries = next
	return nil
}

// Delete 按 ID 删除一条记录
func (l *Ledger) Delete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.entries {
		if l.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("entry %s not found", id)
	}

	next := make([]domain.EmissionEntry, 0, len(l.entries)-1)
	next = append(next, l.entries[:idx]...)
	next = append(next, l.entries[idx+1:]...)

	if err := l.persist(next); err != nil {
		return err
	}
	l.entries = next
	return nil
}

// persist 将集合写入临时文件后 rename 到正式路径，调用方须持有写锁
func (l *Ledger) persist(entries []domain.EmissionEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish ledger: %w", err)
	}
	return nil
}
