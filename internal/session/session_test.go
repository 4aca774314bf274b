package session

import (
	"os"
	"strings"
	"testing"

	"github.com/soaresden/photoorganizer/internal/domain"
)

func TestEdits_RoundTrip(t *testing.T) {
	s := New(t.TempDir())

	edits, err := s.LoadEdits()
	if err != nil {
		t.Fatalf("首次 LoadEdits 不应报错：%v", err)
	}
	if len(edits) != 0 {
		t.Fatalf("首次应得到空表：%v", edits)
	}

	edits["IMG_20240815_101530.jpg"] = Edit{Year: 2024, Folder: "Trip", Category: domain.CategoryNormal}
	if err := s.SaveEdits(edits); err != nil {
		t.Fatalf("SaveEdits 失败：%v", err)
	}

	// 重新读取（模拟进程重启）必须复原同样的决定。
	got, err := New(s.Dir()).LoadEdits()
	if err != nil {
		t.Fatalf("重载失败：%v", err)
	}
	e, ok := got["IMG_20240815_101530.jpg"]
	if !ok || e.Year != 2024 || e.Folder != "Trip" {
		t.Fatalf("会话未能跨进程复原：%+v", got)
	}
}

func TestIgnore_RoundTripSortedStable(t *testing.T) {
	s := New(t.TempDir())

	ids := map[string]struct{}{"b.jpg": {}, "a.jpg": {}}
	if err := s.SaveIgnore(ids); err != nil {
		t.Fatalf("SaveIgnore 失败：%v", err)
	}

	b, err := os.ReadFile(s.IgnorePath())
	if err != nil {
		t.Fatalf("读取忽略名单失败：%v", err)
	}
	// 排序写出：a 在 b 前。
	if strings.Index(string(b), "a.jpg") > strings.Index(string(b), "b.jpg") {
		t.Fatalf("忽略名单应排序写出：%s", string(b))
	}

	got, err := s.LoadIgnore()
	if err != nil {
		t.Fatalf("LoadIgnore 失败：%v", err)
	}
	if _, ok := got["a.jpg"]; !ok {
		t.Fatalf("忽略名单未复原：%v", got)
	}
	if len(got) != 2 {
		t.Fatalf("期望 2 条，实际 %d", len(got))
	}
}

func TestEdits_CorruptFileIsAnError(t *testing.T) {
	s := New(t.TempDir())
	if err := os.WriteFile(s.EditsPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	if _, err := s.LoadEdits(); err == nil {
		t.Fatalf("损坏的会话文件应报错（不能悄悄丢弃用户决定）")
	}
}
