package vcache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKey_DeterministicAndPathSensitive(t *testing.T) {
	a := Key("/camera/VID_001.mp4")
	if a != Key("/camera/VID_001.mp4") {
		t.Fatalf("同路径应得到同键")
	}
	if len(a) != 16 {
		t.Fatalf("键长度应为 16：%q", a)
	}
	if a == Key("/camera/VID_002.mp4") {
		t.Fatalf("不同路径不应撞键")
	}
}

func TestFrameName(t *testing.T) {
	if got := FrameName("00000000deadbeef", 5); got != "00000000deadbeef_005.jpg" {
		t.Fatalf("帧名格式不对：%q", got)
	}
}

func TestPurge_RemovesOnlyOwnFrames(t *testing.T) {
	root := t.TempDir()
	dir := Dir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	src := filepath.Join(root, "VID_001.mp4")
	other := filepath.Join(root, "VID_002.mp4")

	mine := []string{FrameName(Key(src), 0), FrameName(Key(src), 50), FrameName(Key(src), 100)}
	keep := FrameName(Key(other), 50)
	for _, n := range append(mine, keep) {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("jpg"), 0o644); err != nil {
			t.Fatalf("写入帧失败：%v", err)
		}
	}

	if err := Purge(root, src); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	for _, n := range mine {
		if _, err := os.Stat(filepath.Join(dir, n)); !os.IsNotExist(err) {
			t.Fatalf("帧 %q 应已删除：%v", n, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, keep)); err != nil {
		t.Fatalf("别的视频的帧不应被删：%v", err)
	}
}

func TestPurge_NoCacheDirIsFine(t *testing.T) {
	if err := Purge(t.TempDir(), "/camera/VID_001.mp4"); err != nil {
		t.Fatalf("缓存目录不存在不应报错：%v", err)
	}
}
