// Package session 管理跨进程存续的两份状态：编辑会话与重复忽略名单。
//
// 约定（单用户、单实例）：
// - 启动时整读，变更后整写（原子替换），不做增量更新
// - 不支持多进程并发访问同一状态目录
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/soaresden/photoorganizer/internal/domain"
	"github.com/soaresden/photoorganizer/internal/infra/fsx"
)

const (
	editsFile  = "triphoto_edits.json"
	ignoreFile = "triphoto_ignore.json"
)

// Edit 是一条尚未执行的用户决定（identity -> 年份/目录/分类）。
// 条目在对应文件成功移动或删除后移除；失败则保留，用户可重试。
type Edit struct {
	Year     int             `json:"year,omitempty"`
	Folder   string          `json:"folder,omitempty"`
	Category domain.Category `json:"category,omitempty"`
}

// Store 绑定一个状态目录。零值不可用，必须经 New 构造。
type Store struct {
	dir string
}

func New(dir string) Store {
	return Store{dir: filepath.Clean(strings.TrimSpace(dir))}
}

// Dir 返回状态目录。
func (s Store) Dir() string { return s.dir }

// EditsPath 返回编辑会话文件的绝对路径。
func (s Store) EditsPath() string { return filepath.Join(s.dir, editsFile) }

// IgnorePath 返回忽略名单文件的绝对路径。
func (s Store) IgnorePath() string { return filepath.Join(s.dir, ignoreFile) }

// LoadEdits 读取编辑会话；文件不存在返回空表（首次运行是常态，不算错误）。
func (s Store) LoadEdits() (map[string]Edit, error) {
	b, err := os.ReadFile(s.EditsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Edit{}, nil
		}
		return nil, err
	}
	edits := map[string]Edit{}
	if err := json.Unmarshal(b, &edits); err != nil {
		return nil, err
	}
	return edits, nil
}

// SaveEdits 原子整写编辑会话。
func (s Store) SaveEdits(edits map[string]Edit) error {
	if edits == nil {
		edits = map[string]Edit{}
	}
	b, err := json.MarshalIndent(edits, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomicReplace(s.dir, editsFile, b)
}

// LoadIgnore 读取忽略名单；文件不存在返回空集合。
func (s Store) LoadIgnore() (map[string]struct{}, error) {
	b, err := os.ReadFile(s.IgnorePath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set, nil
}

// SaveIgnore 原子整写忽略名单（排序后写出，文件内容稳定，便于 diff）。
func (s Store) SaveIgnore(ids map[string]struct{}) error {
	names := make([]string, 0, len(ids))
	for n := range ids {
		names = append(names, n)
	}
	sort.Strings(names)

	b, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomicReplace(s.dir, ignoreFile, b)
}
