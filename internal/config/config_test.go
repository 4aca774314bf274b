package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEffective_CLIPathNoConfigFile(t *testing.T) {
	cwd := t.TempDir()
	camera := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{Path: camera})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Path != filepath.Clean(camera) {
		t.Fatalf("path 不符合预期：%q", eff.Path)
	}
	if eff.Apply {
		t.Fatalf("默认必须是 dry-run")
	}
	if !eff.AutoScreens {
		t.Fatalf("auto_screens 默认应为 true")
	}
	if eff.StateDir != cwd {
		t.Fatalf("state_dir 默认应为 cwd：%q", eff.StateDir)
	}
}

func TestLoadEffective_NoArgsRequiresConfig(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeNotFound {
		t.Fatalf("期望 config_not_found，实际：%v", err)
	}

	// 有配置但缺 camera_path。
	writeConfig(t, cwd, `{"apply": true}`)
	_, err = LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeMissingPath {
		t.Fatalf("期望 config_missing_path，实际：%v", err)
	}
}

func TestLoadEffective_CLIOverridesConfig(t *testing.T) {
	cwd := t.TempDir()
	writeConfig(t, cwd, `{"camera_path": "cam", "apply": true, "auto_screens": true}`)

	// --apply=false 必须能覆盖 config.apply=true；auto_screens 同理。
	eff, err := LoadEffective(cwd, CLIArgs{
		Apply: false, ApplySet: true,
		AutoScreens: false, AutoScreensSet: true,
	})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Apply {
		t.Fatalf("CLI --apply=false 未能覆盖配置")
	}
	if eff.AutoScreens {
		t.Fatalf("CLI --auto-screens=false 未能覆盖配置")
	}
	// 相对 camera_path 以 cwd 为基准。
	if eff.Path != filepath.Join(cwd, "cam") {
		t.Fatalf("path 不符合预期：%q", eff.Path)
	}
}

func TestLoadEffective_InvalidJSON(t *testing.T) {
	cwd := t.TempDir()
	writeConfig(t, cwd, `{broken`)

	_, err := LoadEffective(cwd, CLIArgs{Path: "x"})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 config_invalid，实际：%v", err)
	}
}

func TestLoadEffective_StateDirFromConfig(t *testing.T) {
	cwd := t.TempDir()
	writeConfig(t, cwd, `{"camera_path": "cam", "state_dir": "state"}`)

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.StateDir != filepath.Join(cwd, "state") {
		t.Fatalf("state_dir 不符合预期：%q", eff.StateDir)
	}
}

func writeConfig(t *testing.T, cwd, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(cwd, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("写入配置失败：%v", err)
	}
}
