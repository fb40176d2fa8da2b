package domain

import (
	"sort"
	"time"
)

const (
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

const (
	ErrCodeIOFailed          = "io_failed"
	ErrCodeParseFailed       = "parse_failed"
	ErrCodeExportFailed      = "export_failed"
	ErrCodeNoArchives        = "no_archives"
	ErrCodeConfigNotFound    = "config_not_found"
	ErrCodeConfigInvalid     = "config_invalid"
	ErrCodeConfigMissingPath = "config_missing_path"
)

// RunReport 是对外稳定输出（stdout JSON / report.json）的结构。
type RunReport struct {
	Path   string `json:"path"`
	DryRun bool   `json:"dry_run"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Items   []ItemResult  `json:"items"`
}

type ReportSummary struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Playlists int `json:"playlists"`
	Tracks    int `json:"tracks"`
}

// ItemResult 对应一个被处理的 NML 文件。
type ItemResult struct {
	File string `json:"file"` // 相对 root 的路径；合成条目（例如 config 错误）为空

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`

	Playlists []PlaylistResult `json:"playlists"`
}

type PlaylistResult struct {
	Name   string `json:"name"`
	Tracks int    `json:"tracks"`
	// Timed 表示该 playlist 带起始时刻数据（offset 已计算）。
	Timed bool `json:"timed"`
	// ExportedTo 仅在 apply 模式且导出成功时非空。
	ExportedTo string `json:"exported_to,omitempty"`

	// Decoded 是解码后的 playlist 本体，供 TTY 渲染用；不进 JSON（对外结构保持稳定）。
	Decoded Playlist `json:"-"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) items 稳定排序：按 file 字典序；file=="" 的合成条目排在最后
// 3) summary 由 items 计算得出
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Items, func(i, j int) bool {
		a := r.Items[i].File
		b := r.Items[j].File
		if a == "" && b == "" {
			return false
		}
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})

	var s ReportSummary
	for _, it := range r.Items {
		switch it.Status {
		case StatusProcessed:
			s.Processed++
		case StatusFailed:
			s.Failed++
		}
		for _, p := range it.Playlists {
			s.Playlists++
			s.Tracks += p.Tracks
		}
	}
	r.Summary = s
}
