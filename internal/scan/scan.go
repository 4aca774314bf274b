package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/soaresden/photoorganizer/internal/classify"
	"github.com/soaresden/photoorganizer/internal/domain"
	"github.com/soaresden/photoorganizer/internal/exifdate"
)

var yearDirRE = regexp.MustCompile(`^\d{4}$`)

// Scan 扫描相机目录，产出一次性的完整快照。
//
// 遍历深度固定为三层：根下的散落文件、YEAR/、YEAR/FOLDER/。
// - 根下散落的媒体文件 → 待整理条目（图片无日期时做一次 EXIF 年份回退）
// - YEAR/FOLDER/（非保留）→ 整理目录及其成员集合
// - 保留目录（!duplicate、!tempvideoscreen、!trash）与非年份目录 → 跳过
//
// 失败语义：
// - 根目录不存在/不是目录/不可读 → 整体失败
// - 子目录不可读 → 记入 Warnings，扫描继续（单点故障不拖垮全局）
//
// 扫描只构建快照，不做任何移动；重复/冲突标注由 app.ResolveDuplicates 完成。
func Scan(root string) (domain.Inventory, error) {
	root = filepath.Clean(root)

	fi, err := os.Stat(root)
	if err != nil {
		return domain.Inventory{}, err
	}
	if !fi.IsDir() {
		return domain.Inventory{}, fmt.Errorf("不是目录：%q", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return domain.Inventory{}, err
	}

	inv := domain.Inventory{
		Root:    root,
		Pending: make([]domain.MediaFile, 0, 128),
		Folders: make([]domain.OrganizedFolder, 0, 16),
	}

	for _, e := range entries {
		name := e.Name()

		if e.IsDir() {
			if !yearDirRE.MatchString(name) {
				// 非年份目录（含保留目录）不属于整理域。
				continue
			}
			year, _ := strconv.Atoi(name)
			scanYear(&inv, filepath.Join(root, name), year)
			continue
		}

		ext := strings.ToLower(filepath.Ext(name))
		kind := classify.KindOf(ext)
		if kind == domain.KindOther {
			continue
		}

		info, err := e.Info()
		if err != nil {
			inv.Warnings = append(inv.Warnings, fmt.Sprintf("stat 失败，跳过 %q：%v", name, err))
			continue
		}

		abs := filepath.Join(root, name)
		res := classify.Classify(name)

		year := res.Year
		if year == 0 && kind == domain.KindImage {
			// 文件名无日期：尝试 EXIF 拍摄时间；失败则留给用户补充。
			if y, ok := exifdate.Year(abs); ok {
				year = y
			}
		}

		inv.Pending = append(inv.Pending, domain.MediaFile{
			Identity:  name,
			AbsPath:   abs,
			Ext:       ext,
			Kind:      kind,
			Year:      year,
			Category:  res.Category,
			TakenUnix: res.TakenUnix,
			State:     domain.StateUnorganized,
			Size:      info.Size(),
			ModUnix:   info.ModTime().Unix(),
		})
	}

	// 强制稳定输出：按文件名时间戳排序（无时间戳的排最后），同戳按 Identity。
	sort.SliceStable(inv.Pending, func(i, j int) bool {
		a, b := inv.Pending[i], inv.Pending[j]
		if a.TakenUnix != b.TakenUnix {
			if a.TakenUnix == 0 {
				return false
			}
			if b.TakenUnix == 0 {
				return true
			}
			return a.TakenUnix < b.TakenUnix
		}
		return a.Identity < b.Identity
	})
	sort.Slice(inv.Folders, func(i, j int) bool {
		a, b := inv.Folders[i], inv.Folders[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Name < b.Name
	})

	return inv, nil
}

func scanYear(inv *domain.Inventory, yearPath string, year int) {
	entries, err := os.ReadDir(yearPath)
	if err != nil {
		inv.Warnings = append(inv.Warnings, fmt.Sprintf("读取年份目录失败，跳过 %q：%v", yearPath, err))
		return
	}

	for _, e := range entries {
		if !e.IsDir() {
			// YEAR/ 下散落的文件不属于任何整理目录，忽略。
			continue
		}
		name := e.Name()
		if domain.IsReservedDir(name) {
			continue
		}

		dir := filepath.Join(yearPath, name)
		members, err := readMembers(dir)
		if err != nil {
			inv.Warnings = append(inv.Warnings, fmt.Sprintf("读取整理目录失败，跳过 %q：%v", dir, err))
			continue
		}

		inv.Folders = append(inv.Folders, domain.OrganizedFolder{
			Year:     year,
			Name:     name,
			AbsPath:  dir,
			ColorTag: domain.ColorFromName(name),
			Auto:     domain.IsAutoDir(name),
			Members:  members,
		})
	}
}

func readMembers(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	members := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		members[e.Name()] = struct{}{}
	}
	return members, nil
}
