package domain

import (
	"testing"
	"time"
)

func TestRunReport_Finalize_SortAndSummary(t *testing.T) {
	rr := RunReport{
		StartedAt:  time.Date(2024, 7, 15, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2024, 7, 15, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
		Items: []ItemResult{
			{File: "", Status: StatusFailed, ErrorCode: ErrCodeNoArchives},
			{File: "b.nml", Status: StatusProcessed, Playlists: []PlaylistResult{{Name: "Set2", Tracks: 3}}},
			{File: "a.nml", Status: StatusProcessed, Playlists: []PlaylistResult{{Name: "Set1", Tracks: 2}, {Name: "Warmup", Tracks: 1}}},
		},
	}

	rr.Finalize()

	// 合成条目（file==""）排在最后，其余按 file 字典序。
	if rr.Items[0].File != "a.nml" || rr.Items[1].File != "b.nml" || rr.Items[2].File != "" {
		t.Fatalf("排序不符合预期：%+v", rr.Items)
	}

	if rr.Summary.Processed != 2 || rr.Summary.Failed != 1 {
		t.Fatalf("summary 状态计数不符合预期：%+v", rr.Summary)
	}
	if rr.Summary.Playlists != 3 || rr.Summary.Tracks != 6 {
		t.Fatalf("summary 聚合计数不符合预期：%+v", rr.Summary)
	}

	if rr.StartedAt.Location() != time.UTC || rr.FinishedAt.Location() != time.UTC {
		t.Fatalf("时间必须统一为 UTC")
	}
}
