package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/soaresden/photoorganizer/internal/app/run"
	"github.com/soaresden/photoorganizer/internal/config"
	"github.com/soaresden/photoorganizer/internal/domain"
	"github.com/soaresden/photoorganizer/internal/infra/fsx"
	"github.com/soaresden/photoorganizer/internal/session"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage()
		return
	}

	var code int
	switch args[0] {
	case "run":
		code = runCmd(args[1:])
	case "assign":
		code = assignCmd(args[1:])
	case "ignore":
		code = ignoreCmd(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage()
		code = 2
	}
	if code != 0 {
		os.Exit(code)
	}
}

func runCmd(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printRunUsage()
			return 0
		}
	}

	ra, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printRunUsage()
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}
	cwdAbs, _ := filepath.Abs(cwd)

	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		Path:           ra.Path,
		Apply:          ra.Apply,
		ApplySet:       ra.ApplySet,
		AutoScreens:    ra.AutoScreens,
		AutoScreensSet: ra.AutoScreensSet,
	})
	if err != nil {
		emitReport(reportForConfigError(cwdAbs, ra, err))
		return 1
	}

	store := session.New(eff.StateDir)

	progressW, interactive := pickProgressWriter()
	var obs run.Observer
	if interactive {
		obs = newProgressUI(progressW)
	}

	rr := run.ExecuteWithObserver(context.Background(), eff, store, obs)

	// apply：必须写入 <state_dir>/report.json；dry-run 禁止落盘。
	if eff.Apply {
		if err := writeReportFile(eff.StateDir, rr); err != nil {
			fmt.Fprintf(os.Stderr, "写入 report.json 失败：%v\n", err)
			emitReport(rr)
			return 1
		}
	}

	emitReport(rr)
	if interactive {
		emitLocations(progressW, eff)
	}
	if rr.Summary.Failed == 0 && rr.Summary.Conflicts == 0 {
		return 0
	}
	return 1
}

// assignCmd 记录一条“该文件去哪”的决定；真正移动发生在下一次 run --apply。
func assignCmd(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printAssignUsage()
			return 0
		}
	}

	var identity, folder string
	var year int
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--folder":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "参数错误：--folder 需要一个值")
				return 2
			}
			i++
			folder = args[i]
		case strings.HasPrefix(a, "--folder="):
			folder = strings.TrimPrefix(a, "--folder=")
		case a == "--year":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "参数错误：--year 需要一个值")
				return 2
			}
			i++
			y, err := parseYear(args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "参数错误：%v\n", err)
				return 2
			}
			year = y
		case strings.HasPrefix(a, "--year="):
			y, err := parseYear(strings.TrimPrefix(a, "--year="))
			if err != nil {
				fmt.Fprintf(os.Stderr, "参数错误：%v\n", err)
				return 2
			}
			year = y
		case strings.HasPrefix(a, "-"):
			fmt.Fprintf(os.Stderr, "参数错误：未知参数 %q\n", a)
			return 2
		default:
			if identity != "" {
				fmt.Fprintf(os.Stderr, "参数错误：重复的 identity：%q 与 %q\n", identity, a)
				return 2
			}
			identity = a
		}
	}

	if identity == "" {
		fmt.Fprintln(os.Stderr, "参数错误：缺少 identity（文件名）")
		printAssignUsage()
		return 2
	}
	if strings.TrimSpace(folder) == "" {
		fmt.Fprintln(os.Stderr, "参数错误：--folder 不能为空")
		return 2
	}
	if strings.HasPrefix(folder, "!") {
		fmt.Fprintln(os.Stderr, "参数错误：以 ! 开头的目录名是保留的，不能手工指定")
		return 2
	}

	store, code := openStore()
	if code != 0 {
		return code
	}

	edits, err := store.LoadEdits()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取会话记录失败：%v\n", err)
		return 1
	}
	ed := edits[identity]
	ed.Folder = folder
	if year != 0 {
		ed.Year = year
	}
	edits[identity] = ed
	if err := store.SaveEdits(edits); err != nil {
		fmt.Fprintf(os.Stderr, "保存会话记录失败：%v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "已记录：%s -> %s（下一次 run --apply 时生效）\n", identity, folder)
	return 0
}

// ignoreCmd 把 identity 加入忽略名单：不再上报重复/冲突，也不自动清理。
func ignoreCmd(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printIgnoreUsage()
			return 0
		}
	}

	if len(args) != 1 || strings.HasPrefix(args[0], "-") {
		fmt.Fprintln(os.Stderr, "参数错误：ignore 需要且仅需要一个 identity（文件名）")
		printIgnoreUsage()
		return 2
	}
	identity := args[0]

	store, code := openStore()
	if code != 0 {
		return code
	}

	ids, err := store.LoadIgnore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取忽略名单失败：%v\n", err)
		return 1
	}
	ids[identity] = struct{}{}
	if err := store.SaveIgnore(ids); err != nil {
		fmt.Fprintf(os.Stderr, "保存忽略名单失败：%v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "已加入忽略名单：%s\n", identity)
	return 0
}

func openStore() (session.Store, int) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return session.Store{}, 1
	}
	// assign/ignore 不需要相机目录，只需要 state_dir；配置缺失时退回 cwd。
	eff, err := config.LoadEffective(cwd, config.CLIArgs{})
	if err != nil {
		abs, _ := filepath.Abs(cwd)
		return session.New(abs), 0
	}
	return session.New(eff.StateDir), 0
}

type runArgs struct {
	Path           string
	Apply          bool
	ApplySet       bool
	AutoScreens    bool
	AutoScreensSet bool
}

func parseRunArgs(args []string) (runArgs, error) {
	ra := runArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--apply":
			ra.Apply = true
			ra.ApplySet = true
		case strings.HasPrefix(a, "--apply="):
			v, err := parseBool("--apply", strings.TrimPrefix(a, "--apply="))
			if err != nil {
				return runArgs{}, err
			}
			ra.Apply = v
			ra.ApplySet = true
		case a == "--auto-screens":
			ra.AutoScreens = true
			ra.AutoScreensSet = true
		case strings.HasPrefix(a, "--auto-screens="):
			v, err := parseBool("--auto-screens", strings.TrimPrefix(a, "--auto-screens="))
			if err != nil {
				return runArgs{}, err
			}
			ra.AutoScreens = v
			ra.AutoScreensSet = true
		case strings.HasPrefix(a, "-"):
			return runArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			if ra.Path != "" {
				return runArgs{}, fmt.Errorf("重复的 path：%q 与 %q", ra.Path, a)
			}
			ra.Path = a
		}
	}

	return ra, nil
}

func parseBool(flag, v string) (bool, error) {
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%s 只能是 true 或 false，实际是 %q", flag, v)
	}
}

func parseYear(v string) (int, error) {
	y, err := strconv.Atoi(v)
	if err != nil || y < 1000 || y > 9999 {
		return 0, fmt.Errorf("--year 必须是四位年份，实际是 %q", v)
	}
	return y, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  triphoto run [path] [--apply[=true|false]] [--auto-screens[=true|false]]
  triphoto assign <文件名> --folder 目录名 [--year YYYY]
  triphoto ignore <文件名>

命令：
  run     扫描并整理相机目录（默认 dry-run，只预览不落盘）
  assign  为某个待整理文件指定目标目录（下一次 run --apply 时生效）
  ignore  把某个文件名加入忽略名单（不再上报重复/冲突）

使用 "triphoto run --help" 查看详细说明。
`)
}

func printRunUsage() {
	fmt.Fprint(os.Stdout, `用法：
  triphoto run [path] [--apply[=true|false]] [--auto-screens[=true|false]]

参数：
  path            相机目录（未指定则读配置文件 triphoto.json 的 camera_path）
  --apply         执行移动/清理（默认 dry-run）；支持 --apply=false 覆盖配置中的 apply=true
  --auto-screens  截图/录屏自动归入 !Screenshots_YYYY / !ScreenRecorder_YYYY（默认开）
  -h, --help      显示帮助
`)
}

func printAssignUsage() {
	fmt.Fprint(os.Stdout, `用法：
  triphoto assign <文件名> --folder 目录名 [--year YYYY]

说明：
  记录一条“该文件去哪”的决定，存入会话记录；文件实际移动发生在下一次 run --apply。
  --year 用于文件名推不出年份的文件（pending/no_year）。
`)
}

func printIgnoreUsage() {
	fmt.Fprint(os.Stdout, `用法：
  triphoto ignore <文件名>

说明：
  忽略名单是永久抑制：命中者不再上报重复/冲突，也不会被自动清理。
`)
}

func emitReport(rr domain.RunReport) {
	if isTTY(os.Stdout) {
		fmt.Fprintf(os.Stdout, "完成：moved=%d trashed=%d planned=%d pending=%d failed=%d conflicts=%d\n",
			rr.Summary.Moved, rr.Summary.Trashed, rr.Summary.Planned, rr.Summary.Pending, rr.Summary.Failed, rr.Summary.Conflicts,
		)
		if rr.Summary.Failed > 0 {
			for _, e := range rr.Entries {
				if e.Status != domain.StatusFailed {
					continue
				}
				key := e.Identity
				if key == "" {
					key = "<config>"
				}
				fmt.Fprintf(os.Stderr, "%s %s: %s\n", key, e.ErrorCode, e.ErrorMsg)
			}
		}
		for _, c := range rr.Conflicts {
			fmt.Fprintf(os.Stderr, "冲突 %s: %s\n", c.Identity, strings.Join(c.Folders, ", "))
		}
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 RunReport JSON（日志/摘要走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(rr)
	fmt.Fprintf(os.Stderr, "完成：moved=%d trashed=%d planned=%d pending=%d failed=%d conflicts=%d\n",
		rr.Summary.Moved, rr.Summary.Trashed, rr.Summary.Planned, rr.Summary.Pending, rr.Summary.Failed, rr.Summary.Conflicts,
	)
}

func reportForConfigError(cwdAbs string, ra runArgs, err error) domain.RunReport {
	now := time.Now().UTC()
	rr := domain.RunReport{
		Path:       cwdAbs,
		DryRun:     !(ra.ApplySet && ra.Apply),
		StartedAt:  now,
		FinishedAt: now,
		Entries: []domain.EntryResult{{
			Status:    domain.StatusFailed,
			ErrorCode: config.Code(err),
			ErrorMsg:  err.Error(),
		}},
	}
	rr.Finalize()
	return rr
}

func writeReportFile(stateDir string, rr domain.RunReport) error {
	b, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomicReplace(stateDir, "report.json", b)
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func pickProgressWriter() (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTTY(os.Stderr) {
		return os.Stderr, true
	}
	// 某些环境（例如仅重定向 stderr）下，stdout 仍是 TTY：退化输出到 stdout。
	if isTTY(os.Stdout) {
		return os.Stdout, true
	}
	return nil, false
}

func emitLocations(w io.Writer, eff config.EffectiveConfig) {
	// 这两行用于降低“完成后不知道产物在哪”的摩擦，且不影响 stdout JSON 契约。
	if w == nil {
		return
	}
	if eff.Apply {
		fmt.Fprintf(w, "report: %s\n", filepath.Join(eff.StateDir, "report.json"))
		fmt.Fprintf(w, "trash: %s\n", filepath.Join(eff.Path, domain.TrashDirName))
	}
}
