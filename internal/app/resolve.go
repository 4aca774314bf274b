package app

import (
	"path/filepath"
	"sort"
	"strconv"

	"github.com/soaresden/photoorganizer/internal/domain"
)

// Resolution 是重复判定的产物。
type Resolution struct {
	// Conflicts：同一 Identity 出现在 ≥2 个非自动整理目录，必须由用户显式处理，
	// 绝不自动解决。忽略名单内的 Identity 不再上报。
	Conflicts []domain.Conflict

	// AutoTrash：自动归类目录（!Screenshots_* 等）里与某个整理目录重名的副本。
	// 截图类重复价值低，按规则送回收区（可恢复），不必等用户确认。
	AutoTrash []string
}

// ResolveDuplicates 就地标注待整理条目的重复状态，并生成冲突报告。
//
// 规则：
// - 待整理条目的 Identity 已存在于任意整理目录（含自动目录）→ state=duplicate，
//   后续由规划层改道 !duplicate/（截图类直接送回收区）
// - Identity 出现在 ≥2 个非自动整理目录 → 冲突，上报但不动文件
// - 忽略名单是永久抑制：命中者既不上报冲突，也不触发自动清理
//
// 确定性：同一快照 + 同一忽略名单，输出（含顺序）必然一致。
func ResolveDuplicates(inv *domain.Inventory, ignore map[string]struct{}) Resolution {
	organized := make(map[string][]int, 256) // identity -> 非自动目录下标
	auto := make(map[string][]int, 64)       // identity -> 自动目录下标
	all := make(map[string]struct{}, 256)

	for i := range inv.Folders {
		f := &inv.Folders[i]
		for name := range f.Members {
			all[name] = struct{}{}
			if f.Auto {
				auto[name] = append(auto[name], i)
			} else {
				organized[name] = append(organized[name], i)
			}
		}
	}

	for i := range inv.Pending {
		p := &inv.Pending[i]
		if _, dup := all[p.Identity]; dup {
			p.State = domain.StateDuplicate
			continue
		}
		if _, ok := ignore[p.Identity]; ok {
			p.State = domain.StateIgnored
		}
	}

	res := Resolution{}

	// 冲突与自动清理都按 identity 字典序产出，保证跨运行稳定。
	names := make([]string, 0, len(organized))
	for name := range organized {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := ignore[name]; ok {
			continue
		}

		orgIdx := organized[name]
		if len(orgIdx) >= 2 {
			refs := make([]string, 0, len(orgIdx))
			for _, i := range orgIdx {
				f := inv.Folders[i]
				refs = append(refs, strconv.Itoa(f.Year)+"/"+f.Name)
			}
			sort.Strings(refs)
			res.Conflicts = append(res.Conflicts, domain.Conflict{Identity: name, Folders: refs})
		}

		// 自动目录副本 + 整理目录副本并存：自动副本可清。
		for _, i := range auto[name] {
			res.AutoTrash = append(res.AutoTrash, filepath.Join(inv.Folders[i].AbsPath, name))
		}
	}
	sort.Strings(res.AutoTrash)

	return res
}
