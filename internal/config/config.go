package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/setlist/internal/export"
)

const (
	// ErrCodeNotFound 表示无参运行但 cwd 下没有 setlist.json。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeMissingPath 表示无参运行但配置文件缺少 path 字段。
	ErrCodeMissingPath = "config_missing_path"
)

const (
	// DefaultStartTrack 是 start_track 的内置默认值（1 起始，1 等价于全保留）。
	DefaultStartTrack = 1
	// DefaultExport 是导出格式的最终默认值（当 CLI 与配置文件都未指定时）。
	DefaultExport = export.FormatTracklist
)

// CLIArgs 只包含 CLI 暴露的入口项，并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --played-only=false 必须能覆盖 config.played_only=true。
type CLIArgs struct {
	Path string

	StartTrack    int
	StartTrackSet bool

	PlayedOnly    bool
	PlayedOnlySet bool

	Export    string
	ExportSet bool

	Apply    bool
	ApplySet bool
}

// FileConfig 对应 setlist.json 的解析结构。
type FileConfig struct {
	Path        string   `json:"path"`
	StartTrack  *int     `json:"start_track"`
	PlayedOnly  *bool    `json:"played_only"`
	Export      string   `json:"export"`
	Apply       *bool    `json:"apply"`
	ExcludeDirs []string `json:"exclude_dirs"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	// Path 指向一个 .nml 文件或包含 .nml 文件的目录（clean + absolute）。
	Path string

	// StartTrack 是 1 起始且含该位置的过滤下标；<=1 等价于全保留（位置永不为负）。
	StartTrack int
	PlayedOnly bool

	Export string
	Apply  bool

	// ExcludeDirs 仅在 Path 为目录时生效（扫描排除）。
	ExcludeDirs []string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeMissingPath:
		return fmt.Sprintf("%s：配置文件 %q 缺少必填字段 path", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 按约定发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 path：尝试读取 <dir>/setlist.json（可选）；path 是 .nml 文件时
//    <dir> 取其父目录，否则取 path 本身
// 2) CLI 未提供 path：必须读取 <cwd>/setlist.json（必选），且其中必须包含 path
//
// 覆盖优先级（固定）：
// - path：CLI path > config path
// - start_track / played_only / export / apply：CLI > config > 默认
// - exclude_dirs：仅由 config 控制（CLI 不暴露）
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	if strings.TrimSpace(cli.Path) != "" {
		// CLI 给了 path：配置文件可选，位置固定在 <dir>/setlist.json。
		absPath := absCleanFrom(cwdAbs, cli.Path)
		cfgPath := filepath.Join(configDirFor(absPath), "setlist.json")

		fc, _, err := readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		// 不存在也不报错。

		return merge(absPath, cli, fc, cfgPath)
	}

	// CLI 没给 path：必须读取 <cwd>/setlist.json，且其中必须包含 path。
	cfgPath := filepath.Join(cwdAbs, "setlist.json")
	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}
	if strings.TrimSpace(fc.Path) == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeMissingPath, Path: cfgPath}
	}

	absPath := absCleanFrom(cwdAbs, fc.Path)
	return merge(absPath, cli, fc, cfgPath)
}

func merge(absPath string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	// start_track：CLI > config > 默认。
	startTrack := DefaultStartTrack
	if cli.StartTrackSet {
		startTrack = cli.StartTrack
	} else if fc.StartTrack != nil {
		startTrack = *fc.StartTrack
	}

	// played_only：CLI > config > 默认 false。
	playedOnly := false
	if cli.PlayedOnlySet {
		playedOnly = cli.PlayedOnly
	} else if fc.PlayedOnly != nil {
		playedOnly = *fc.PlayedOnly
	}

	// export：CLI > config > 默认 tracklist。
	format := DefaultExport
	if cli.ExportSet {
		format = cli.Export
	} else if strings.TrimSpace(fc.Export) != "" {
		format = fc.Export
	}
	if !export.ValidFormat(format) {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath,
			Err: fmt.Errorf("export 只能是 %s 或 %s，实际是 %q", export.FormatTracklist, export.FormatM3U, format)}
	}

	// apply：CLI > config > 默认 false。
	apply := false
	if cli.ApplySet {
		apply = cli.Apply
	} else if fc.Apply != nil {
		apply = *fc.Apply
	}

	return EffectiveConfig{
		Path:        absPath,
		StartTrack:  startTrack,
		PlayedOnly:  playedOnly,
		Export:      format,
		Apply:       apply,
		ExcludeDirs: append([]string(nil), fc.ExcludeDirs...),
	}, nil
}

// configDirFor 返回配置文件所在目录：path 是 .nml 文件时取父目录，否则取 path 本身。
// 只看扩展名，不做 stat（path 允许尚不存在，由 run 阶段报 io_failed）。
func configDirFor(absPath string) string {
	if strings.EqualFold(filepath.Ext(absPath), ".nml") {
		return filepath.Dir(absPath)
	}
	return absPath
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
