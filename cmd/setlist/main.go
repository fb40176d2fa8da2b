package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/John-Robertt/setlist/internal/app/run"
	"github.com/John-Robertt/setlist/internal/config"
	"github.com/John-Robertt/setlist/internal/domain"
	"github.com/John-Robertt/setlist/internal/export"
	"github.com/John-Robertt/setlist/internal/infra/fsx"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage()
		return
	}

	switch args[0] {
	case "run":
		if code := runCmd(args[1:]); code != 0 {
			os.Exit(code)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage()
		os.Exit(2)
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
	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		Path:          ra.Path,
		StartTrack:    ra.StartTrack,
		StartTrackSet: ra.StartTrackSet,
		PlayedOnly:    ra.PlayedOnly,
		PlayedOnlySet: ra.PlayedOnlySet,
		Export:        ra.Export,
		ExportSet:     ra.ExportSet,
		Apply:         ra.Apply,
		ApplySet:      ra.ApplySet,
	})
	if err != nil {
		rr := reportForConfigError(cwd, ra, err)
		emitReport(rr, ra.Export)
		return 1
	}

	rr := run.Execute(eff)

	// apply：必须写入 <root>/out/report.json；dry-run 禁止落盘。
	if eff.Apply {
		if err := writeReportFile(eff, rr); err != nil {
			fmt.Fprintf(os.Stderr, "写入 report.json 失败：%v\n", err)
			emitReport(rr, eff.Export)
			return 1
		}
	}

	emitReport(rr, eff.Export)
	if rr.Summary.Failed == 0 {
		return 0
	}
	return 1
}

type runArgs struct {
	Path          string
	StartTrack    int
	StartTrackSet bool
	PlayedOnly    bool
	PlayedOnlySet bool
	Export        string
	ExportSet     bool
	Apply         bool
	ApplySet      bool
}

func parseRunArgs(args []string) (runArgs, error) {
	ra := runArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--start-track":
			if i+1 >= len(args) {
				return runArgs{}, fmt.Errorf("--start-track 需要一个值")
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return runArgs{}, fmt.Errorf("--start-track 必须是整数，实际是 %q", args[i])
			}
			ra.StartTrack = n
			ra.StartTrackSet = true
		case strings.HasPrefix(a, "--start-track="):
			v := strings.TrimPrefix(a, "--start-track=")
			n, err := strconv.Atoi(v)
			if err != nil {
				return runArgs{}, fmt.Errorf("--start-track 必须是整数，实际是 %q", v)
			}
			ra.StartTrack = n
			ra.StartTrackSet = true
		case a == "--played-only":
			ra.PlayedOnly = true
			ra.PlayedOnlySet = true
		case strings.HasPrefix(a, "--played-only="):
			v, err := parseBool(strings.TrimPrefix(a, "--played-only="), "--played-only")
			if err != nil {
				return runArgs{}, err
			}
			ra.PlayedOnly = v
			ra.PlayedOnlySet = true
		case a == "--export":
			if i+1 >= len(args) {
				return runArgs{}, fmt.Errorf("--export 需要一个值")
			}
			i++
			ra.Export = args[i]
			ra.ExportSet = true
		case strings.HasPrefix(a, "--export="):
			ra.Export = strings.TrimPrefix(a, "--export=")
			ra.ExportSet = true
		case a == "--apply":
			ra.Apply = true
			ra.ApplySet = true
		case strings.HasPrefix(a, "--apply="):
			v, err := parseBool(strings.TrimPrefix(a, "--apply="), "--apply")
			if err != nil {
				return runArgs{}, err
			}
			ra.Apply = v
			ra.ApplySet = true
		case strings.HasPrefix(a, "-"):
			return runArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			if ra.Path != "" {
				return runArgs{}, fmt.Errorf("重复的 path：%q 与 %q", ra.Path, a)
			}
			ra.Path = a
		}
	}

	if ra.ExportSet {
		switch ra.Export {
		case "tracklist", "m3u":
			// ok
		case "":
			return runArgs{}, fmt.Errorf("--export 不能为空")
		default:
			return runArgs{}, fmt.Errorf("--export 只能是 tracklist 或 m3u，实际是 %q", ra.Export)
		}
	}

	return ra, nil
}

func parseBool(v, flag string) (bool, error) {
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%s 只能是 true 或 false，实际是 %q", flag, v)
	}
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  setlist run [path] [--start-track N] [--played-only[=true|false]] [--export tracklist|m3u] [--apply[=true|false]]

命令：
  run    解码 NML 会话并生成 set 列表（默认 dry-run）

使用 "setlist run --help" 查看详细说明。
`)
}

func printRunUsage() {
	fmt.Fprint(os.Stdout, `用法：
  setlist run [path] [--start-track N] [--played-only[=true|false]] [--export tracklist|m3u] [--apply[=true|false]]

参数：
  path           .nml 文件或包含 .nml 文件的目录（未指定则读 <cwd>/setlist.json 的 path）
  --start-track  1 起始且含该位置的起始曲目（跳过开场试音；<=1 等价于全保留）
  --played-only  只保留实际播放过的曲目（PLAYEDPUBLIC=0 的预听曲目被丢弃）
  --export       导出格式：tracklist|m3u（未指定则读配置文件；最终默认 tracklist）
  --apply        写出导出文件到 <root>/out/（默认 dry-run）；支持 --apply=false 覆盖配置中的 apply=true
  -h, --help     显示帮助
`)
}

func emitReport(rr domain.RunReport, format string) {
	if isTTY(os.Stdout) {
		renderHuman(os.Stdout, os.Stderr, rr, format)
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 RunReport JSON（日志/摘要走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(rr)
	fmt.Fprintf(os.Stderr, "完成：processed=%d failed=%d playlists=%d tracks=%d\n",
		rr.Summary.Processed, rr.Summary.Failed, rr.Summary.Playlists, rr.Summary.Tracks,
	)
}

// renderHuman 是 TTY 下的人类可读输出：每个 playlist 渲染完整曲目列表
// （与导出文件同一编码，dry-run 下也能直接看到结果），最后一行是摘要。
// 失败条目走 errw。
func renderHuman(out, errw io.Writer, rr domain.RunReport, format string) {
	for _, it := range rr.Items {
		if it.Status == domain.StatusFailed {
			continue
		}
		fmt.Fprintf(out, "%s\n", it.File)
		for _, p := range it.Playlists {
			line := fmt.Sprintf("  %s：%d 首", p.Name, p.Tracks)
			if p.Timed {
				line += "（带计时）"
			}
			if p.ExportedTo != "" {
				line += " -> " + p.ExportedTo
			}
			fmt.Fprintln(out, line)
			out.Write(export.Encode(format, p.Decoded))
			fmt.Fprintln(out)
		}
	}
	fmt.Fprintf(out, "完成：processed=%d failed=%d playlists=%d tracks=%d\n",
		rr.Summary.Processed, rr.Summary.Failed, rr.Summary.Playlists, rr.Summary.Tracks,
	)
	for _, it := range rr.Items {
		if it.Status != domain.StatusFailed {
			continue
		}
		key := it.File
		if key == "" {
			// config/no_archives 等合成条目：没有文件锚点。
			key = "<run>"
		}
		fmt.Fprintf(errw, "%s %s: %s\n", key, it.ErrorCode, it.ErrorMsg)
	}
}

func reportForConfigError(cwd string, ra runArgs, err error) domain.RunReport {
	now := time.Now().UTC()
	rr := domain.RunReport{
		Path:       cwd,
		DryRun:     !(ra.ApplySet && ra.Apply),
		StartedAt:  now,
		FinishedAt: now,
		Items: []domain.ItemResult{{
			File:      "",
			Status:    domain.StatusFailed,
			ErrorCode: config.Code(err),
			ErrorMsg:  err.Error(),
			Playlists: []domain.PlaylistResult{},
		}},
	}
	rr.Finalize()
	return rr
}

func writeReportFile(eff config.EffectiveConfig, rr domain.RunReport) error {
	b, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomicReplace(run.ExportRoot(eff), "report.json", b)
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
