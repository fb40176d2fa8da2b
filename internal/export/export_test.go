package export

import (
	"testing"

	"github.com/John-Robertt/setlist/internal/domain"
)

func samplePlaylist() domain.Playlist {
	song := &domain.Track{Key: "C:/Music/song.mp3", Title: "Song", Artist: "Artist"}
	return domain.Playlist{
		Name: "Set1",
		Tracks: []domain.PlaylistEntry{
			{
				Key:          song.Key,
				Track:        song,
				PlayedPublic: true,
				Offset:       &domain.Offset{Seconds: 0, Display: "00:00:00"},
			},
			{
				// 未命中 collection：用原始 key 兜底，不丢行。
				Key:          "C:/Music/gone.mp3",
				PlayedPublic: true,
				Offset:       &domain.Offset{Seconds: 65, Display: "00:01:05"},
			},
		},
	}
}

func TestTracklist_WithOffsets(t *testing.T) {
	got := string(Tracklist(samplePlaylist()))
	want := "# Set1\n" +
		"00:00:00\tArtist - Song\n" +
		"00:01:05\tC:/Music/gone.mp3\n"
	if got != want {
		t.Fatalf("期望：\n%q\n实际：\n%q", want, got)
	}
}

func TestTracklist_NoTimingFallsBackToIndex(t *testing.T) {
	p := samplePlaylist()
	p.Tracks[0].Offset = nil
	p.Tracks[1].Offset = nil

	got := string(Tracklist(p))
	want := "# Set1\n" +
		"01\tArtist - Song\n" +
		"02\tC:/Music/gone.mp3\n"
	if got != want {
		t.Fatalf("期望：\n%q\n实际：\n%q", want, got)
	}
}

func TestM3U(t *testing.T) {
	got := string(M3U(samplePlaylist()))
	want := "#EXTM3U\n" +
		"#PLAYLIST:Set1\n" +
		"#EXTINF:-1,Artist - Song\n" +
		"C:/Music/song.mp3\n" +
		"#EXTINF:-1,C:/Music/gone.mp3\n" +
		"C:/Music/gone.mp3\n"
	if got != want {
		t.Fatalf("期望：\n%q\n实际：\n%q", want, got)
	}
}

func TestDisplayTitle_PartialMetadata(t *testing.T) {
	cases := []struct {
		artist, title string
		want          string
	}{
		{"Artist", "Song", "Artist - Song"},
		{"", "Song", "Song"},
		{"Artist", "", "Artist"},
		{"", "", "k"},
	}
	for _, c := range cases {
		e := domain.PlaylistEntry{
			Key:   "k",
			Track: &domain.Track{Key: "k", Title: c.title, Artist: c.artist},
		}
		if got := displayTitle(e); got != c.want {
			t.Fatalf("artist=%q title=%q：期望 %q，实际 %q", c.artist, c.title, c.want, got)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	if !ValidFormat(FormatTracklist) || !ValidFormat(FormatM3U) {
		t.Fatalf("内置格式必须合法")
	}
	if ValidFormat("csv") {
		t.Fatalf("未知格式不应通过校验")
	}
	if Ext(FormatM3U) != ".m3u" || Ext(FormatTracklist) != ".txt" {
		t.Fatalf("扩展名不符合预期")
	}
}
