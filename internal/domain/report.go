package domain

import (
	"sort"
	"time"
)

const (
	StatusMoved   = "moved"
	StatusTrashed = "trashed"
	StatusPlanned = "planned"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

const (
	ErrCodeIOFailed          = "io_failed"
	ErrCodeMoveFailed        = "move_failed"
	ErrCodeTargetConflict    = "target_conflict"
	ErrCodeNoYear            = "no_year"
	ErrCodeNoFolder          = "no_folder"
	ErrCodeCollisionOverflow = "collision_overflow"
	ErrCodeStaleSource       = "stale_source"
	ErrCodeTrashFailed       = "trash_failed"
	ErrCodeConfigNotFound    = "config_not_found"
	ErrCodeConfigInvalid     = "config_invalid"
	ErrCodeConfigMissingPath = "config_missing_path"
)

// RunReport 是对外稳定输出（report.json / stdout JSON）的结构。
type RunReport struct {
	Path   string `json:"path"`
	DryRun bool   `json:"dry_run"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary   ReportSummary `json:"summary"`
	Entries   []EntryResult `json:"entries"`
	Conflicts []Conflict    `json:"conflicts"`
	Warnings  []string      `json:"warnings"`
}

type ReportSummary struct {
	Moved      int `json:"moved"`
	Trashed    int `json:"trashed"`
	Planned    int `json:"planned"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
	Pending    int `json:"pending"`
	Duplicates int `json:"duplicates"`
	Conflicts  int `json:"conflicts"`
}

// EntryResult 是单个文件的处理结果。
type EntryResult struct {
	Identity string `json:"identity"`
	Src      string `json:"src"`
	Dst      string `json:"dst"`

	Year     int    `json:"year"`
	Folder   string `json:"folder"`
	Category string `json:"category"`

	// Duplicate 表示该条目是“待整理副本已存在于整理树”的重复（不是冲突）。
	Duplicate bool `json:"duplicate"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) entries/conflicts 稳定排序：按 identity 字典序；identity=="" 的合成条目排在最后
// 3) summary 由 entries/conflicts 计算得出
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	// 空集合输出 []，不输出 null（消费方无需判空）。
	if r.Entries == nil {
		r.Entries = []EntryResult{}
	}
	if r.Conflicts == nil {
		r.Conflicts = []Conflict{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}

	sort.SliceStable(r.Entries, func(i, j int) bool {
		a := r.Entries[i].Identity
		b := r.Entries[j].Identity
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})
	sort.Slice(r.Conflicts, func(i, j int) bool { return r.Conflicts[i].Identity < r.Conflicts[j].Identity })

	var s ReportSummary
	for _, e := range r.Entries {
		switch e.Status {
		case StatusMoved:
			s.Moved++
		case StatusTrashed:
			s.Trashed++
		case StatusPlanned:
			s.Planned++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		case StatusPending:
			s.Pending++
		}
		if e.Duplicate {
			s.Duplicates++
		}
	}
	s.Conflicts = len(r.Conflicts)
	r.Summary = s
}
