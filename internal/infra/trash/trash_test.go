package trash

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPut_MovesIntoBin(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "IMG_001.jpg")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}

	b := New(root)
	dst, err := b.Put(src)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if dst != filepath.Join(b.Dir(), "IMG_001.jpg") {
		t.Fatalf("落点不符合预期：%q", dst)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("源文件应已移走：%v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("回收区内应有文件：%v", err)
	}
}

func TestPut_CollisionSuffix(t *testing.T) {
	root := t.TempDir()
	b := New(root)

	for i := 0; i < 3; i++ {
		src := filepath.Join(root, "IMG_001.jpg")
		if err := os.WriteFile(src, []byte{byte(i)}, 0o644); err != nil {
			t.Fatalf("写入文件失败：%v", err)
		}
		if _, err := b.Put(src); err != nil {
			t.Fatalf("第 %d 次 Put 失败：%v", i+1, err)
		}
	}

	// 三次同名删除：IMG_001.jpg、IMG_001_1.jpg、IMG_001_2.jpg，互不覆盖。
	for _, name := range []string{"IMG_001.jpg", "IMG_001_1.jpg", "IMG_001_2.jpg"} {
		if _, err := os.Stat(filepath.Join(b.Dir(), name)); err != nil {
			t.Fatalf("期望 %q 存在：%v", name, err)
		}
	}
}
