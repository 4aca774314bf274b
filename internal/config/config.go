package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ErrCodeNotFound 表示无参运行但 cwd 下没有 triphoto.json。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeMissingPath 表示无参运行但配置文件缺少 camera_path 字段。
	ErrCodeMissingPath = "config_missing_path"
)

// ConfigFileName 是配置文件名，固定在 cwd 下发现（与原工具“配置跟着程序走”的约定一致）。
const ConfigFileName = "triphoto.json"

// CLIArgs 只包含 CLI 暴露的入口（path/apply/auto-screens），并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --apply=false 必须能覆盖 config.apply=true。
type CLIArgs struct {
	Path string

	Apply    bool
	ApplySet bool

	AutoScreens    bool
	AutoScreensSet bool
}

// FileConfig 对应 triphoto.json 的解析结构。
type FileConfig struct {
	CameraPath  string `json:"camera_path"`
	Apply       *bool  `json:"apply"`
	AutoScreens *bool  `json:"auto_screens"`
	StateDir    string `json:"state_dir"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置
//（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	// Path 是相机目录（clean + absolute）。
	Path string

	Apply bool

	// AutoScreens 控制截图/录屏是否自动归入 !Screenshots_YYYY / !ScreenRecorder_YYYY。
	AutoScreens bool

	// StateDir 是会话/忽略名单/report.json 的存放目录（默认 cwd）。
	StateDir string
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
		return fmt.Sprintf("%s：配置文件 %q 缺少必填字段 camera_path", e.Code, e.Path)
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

// LoadEffective 发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：配置文件永远是 <cwd>/triphoto.json。
// 1) CLI 提供 path：配置文件可选
// 2) CLI 未提供 path：配置文件必选，且其中必须包含 camera_path
//
// 覆盖优先级（固定）：
// - path：CLI path > config camera_path
// - apply：CLI --apply/--apply=false > config > 默认 false（dry-run）
// - auto_screens：CLI > config > 默认 true
// - state_dir：仅由 config 控制；默认 cwd
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, ConfigFileName)
	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	var absPath string
	switch {
	case strings.TrimSpace(cli.Path) != "":
		absPath = absCleanFrom(cwdAbs, cli.Path)
	case !exists:
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	case strings.TrimSpace(fc.CameraPath) == "":
		return EffectiveConfig{}, &Error{Code: ErrCodeMissingPath, Path: cfgPath}
	default:
		absPath = absCleanFrom(cwdAbs, fc.CameraPath)
	}

	// apply：CLI > config > 默认 false。
	apply := false
	if cli.ApplySet {
		apply = cli.Apply
	} else if fc.Apply != nil {
		apply = *fc.Apply
	}

	// auto_screens：CLI > config > 默认 true。
	autoScreens := true
	if cli.AutoScreensSet {
		autoScreens = cli.AutoScreens
	} else if fc.AutoScreens != nil {
		autoScreens = *fc.AutoScreens
	}

	stateDir := cwdAbs
	if strings.TrimSpace(fc.StateDir) != "" {
		stateDir = absCleanFrom(cwdAbs, fc.StateDir)
	}

	return EffectiveConfig{
		Path:        absPath,
		Apply:       apply,
		AutoScreens: autoScreens,
		StateDir:    stateDir,
	}, nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
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
