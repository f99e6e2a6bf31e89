package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_ParticlePeak(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Steady sky
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndFrame: int32(i * 600), Stars: 200, Sparks: 100})
	}

	bookmarks := bd.Check(WindowStats{WindowEndFrame: 3000, Stars: 900, Sparks: 400})
	if !hasBookmark(bookmarks, BookmarkParticlePeak) {
		t.Error("expected particle_peak bookmark")
	}
}

func TestBookmarkDetector_PeakNeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{Stars: 10})
	bookmarks := bd.Check(WindowStats{Stars: 5000})
	if hasBookmark(bookmarks, BookmarkParticlePeak) {
		t.Error("peak must not fire before three windows of history")
	}
}

func TestBookmarkDetector_BurstStorm(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndFrame: int32(i * 600), Bursts: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndFrame: 2400, Bursts: 11})
	if !hasBookmark(bookmarks, BookmarkBurstStorm) {
		t.Error("expected burst_storm bookmark")
	}

	// Small absolute counts never qualify
	bd = NewBookmarkDetector(10)
	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{Bursts: 0})
	}
	if hasBookmark(bd.Check(WindowStats{Bursts: 3}), BookmarkBurstStorm) {
		t.Error("burst_storm must need at least 5 bursts")
	}
}

func TestBookmarkDetector_WordReveal(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bookmarks := bd.Check(WindowStats{WordBursts: 2, WordSparks: 800})
	if !hasBookmark(bookmarks, BookmarkWordReveal) {
		t.Error("expected word_reveal bookmark")
	}
}

func TestBookmarkDetector_SkyCleared(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{Stars: 300, Sparks: 300})
	bookmarks := bd.Check(WindowStats{})
	if !hasBookmark(bookmarks, BookmarkSkyCleared) {
		t.Fatal("expected sky_cleared bookmark")
	}

	// Fires once per dark spell
	if hasBookmark(bd.Check(WindowStats{}), BookmarkSkyCleared) {
		t.Error("sky_cleared fired twice")
	}
}
