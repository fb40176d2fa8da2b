// Package run 把 scan/nml/export 组合成一次完整执行，并产出对外稳定的 RunReport。
package run

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/John-Robertt/setlist/internal/config"
	"github.com/John-Robertt/setlist/internal/domain"
	"github.com/John-Robertt/setlist/internal/export"
	"github.com/John-Robertt/setlist/internal/infra/fsx"
	"github.com/John-Robertt/setlist/internal/nml"
	"github.com/John-Robertt/setlist/internal/scan"
)

// Execute 执行一次 run（dry-run/apply），并返回对外稳定的 RunReport。
// 该函数尽量把错误“降级”为 item 级失败（单个 NML 解析失败不影响其他文件）。
func Execute(eff config.EffectiveConfig) domain.RunReport {
	started := time.Now().UTC()

	rr := domain.RunReport{
		Path:      eff.Path,
		DryRun:    !eff.Apply,
		StartedAt: started,
		Items:     make([]domain.ItemResult, 0, 8),
	}

	files, root, err := resolveArchives(eff)
	if err != nil {
		rr.Items = append(rr.Items, syntheticFailed(domain.ErrCodeIOFailed, fmt.Sprintf("读取输入失败：%v", err)))
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr
	}
	if len(files) == 0 {
		rr.Items = append(rr.Items, syntheticFailed(domain.ErrCodeNoArchives, fmt.Sprintf("路径下没有 NML 文件：%q", eff.Path)))
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr
	}

	for _, f := range files {
		rr.Items = append(rr.Items, processArchive(eff, root, f))
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr
}

// ExportRoot 返回导出产物的根目录（<root>/out）。
// root 与 resolveArchives 的推导保持一致：Path 是文件时取其父目录。
func ExportRoot(eff config.EffectiveConfig) string {
	return filepath.Join(rootDir(eff.Path), "out")
}

// resolveArchives 把 eff.Path 解析为待处理的 NML 文件列表。
// 目录 => 扫描（含排除规则）；文件 => 单条（不验证扩展名，用户显式指定即信任）。
func resolveArchives(eff config.EffectiveConfig) ([]domain.ArchiveFile, string, error) {
	fi, err := os.Stat(eff.Path)
	if err != nil {
		return nil, "", err
	}

	if fi.IsDir() {
		files, err := scan.ScanArchives(eff.Path, eff.ExcludeDirs)
		return files, eff.Path, err
	}

	name := filepath.Base(eff.Path)
	return []domain.ArchiveFile{{
		AbsPath: eff.Path,
		RelPath: name,
		Base:    strings.TrimSuffix(name, filepath.Ext(name)),
		Size:    fi.Size(),
		ModUnix: fi.ModTime().Unix(),
	}}, filepath.Dir(eff.Path), nil
}

func processArchive(eff config.EffectiveConfig, root string, f domain.ArchiveFile) domain.ItemResult {
	it := domain.ItemResult{
		File:      f.RelPath,
		Status:    domain.StatusProcessed,
		Playlists: []domain.PlaylistResult{},
	}

	file, err := os.Open(f.AbsPath)
	if err != nil {
		return failedItem(f, domain.ErrCodeIOFailed, fmt.Sprintf("打开文件失败：%v", err))
	}
	doc, err := nml.FromReader(file)
	_ = file.Close()
	if err != nil {
		return failedItem(f, domain.ErrCodeParseFailed, fmt.Sprintf("解析 NML 失败：%v", err))
	}

	a := nml.Parse(doc, eff.StartTrack, eff.PlayedOnly)

	// 导出目录按 RelPath（去扩展名）布局，避免不同子目录里的同名文件互相覆盖。
	outDir := filepath.Join(root, "out", strings.TrimSuffix(f.RelPath, filepath.Ext(f.RelPath)))
	used := make(map[string]int, len(a.Playlists))

	for _, pl := range a.Playlists {
		pres := domain.PlaylistResult{
			Name:    pl.Name,
			Tracks:  len(pl.Tracks),
			Timed:   len(pl.Tracks) > 0 && pl.Tracks[0].Offset != nil,
			Decoded: pl,
		}

		if eff.Apply {
			name := exportName(pl.Name, used) + export.Ext(eff.Export)
			if err := fsx.WriteFileAtomicReplace(outDir, name, export.Encode(eff.Export, pl)); err != nil {
				it.Status = domain.StatusFailed
				it.ErrorCode = domain.ErrCodeExportFailed
				it.ErrorMsg = fmt.Sprintf("导出 playlist %q 失败：%v", pl.Name, err)
			} else {
				rel, rerr := filepath.Rel(root, filepath.Join(outDir, name))
				if rerr != nil {
					rel = filepath.Join(outDir, name)
				}
				pres.ExportedTo = rel
			}
		}

		it.Playlists = append(it.Playlists, pres)
	}

	return it
}

// exportName 把 playlist 名清洗为文件名，并对同名 playlist 追加序号消歧。
// 空名退化为 "playlist"。
func exportName(name string, used map[string]int) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		default:
			return r
		}
	}, name)
	if name == "" {
		name = "playlist"
	}

	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s-%d", name, n+1)
}

func rootDir(path string) string {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

func failedItem(f domain.ArchiveFile, code, msg string) domain.ItemResult {
	return domain.ItemResult{
		File:      f.RelPath,
		Status:    domain.StatusFailed,
		ErrorCode: code,
		ErrorMsg:  msg,
		Playlists: []domain.PlaylistResult{},
	}
}

func syntheticFailed(code, msg string) domain.ItemResult {
	return domain.ItemResult{
		Status:    domain.StatusFailed,
		ErrorCode: code,
		ErrorMsg:  msg,
		Playlists: []domain.PlaylistResult{},
	}
}
