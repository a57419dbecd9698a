package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/cinetrack/internal/media"
	"github.com/vmunix/cinetrack/internal/resolve/mocks"
	"github.com/vmunix/cinetrack/internal/tmdb"
	"github.com/vmunix/cinetrack/pkg/omdb"
)

func movieHit(id int64, title string) tmdb.SearchResult {
	return tmdb.SearchResult{ID: id, MediaType: tmdb.MediaMovie, Title: title, PosterPath: "/p.jpg", ReleaseDate: "1999-10-15"}
}

func tvHit(id int64, name string) tmdb.SearchResult {
	return tmdb.SearchResult{ID: id, MediaType: tmdb.MediaTV, Name: name, PosterPath: "/p.jpg", FirstAirDate: "2008-01-20"}
}

func candidateIDs(cands []Candidate) []int64 {
	out := make([]int64, len(cands))
	for i, c := range cands {
		out[i] = c.ID
	}
	return out
}

func TestSearch_PrimaryResultsSkipFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)
	secondary := mocks.NewMockSecondaryProvider(ctrl)

	primary.EXPECT().SearchMulti(gomock.Any(), "fight").
		Return([]tmdb.SearchResult{movieHit(1, "Fight Club"), tvHit(2, "Fight Night")}, nil)
	secondary.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)

	r := New(primary, WithSecondary(secondary))
	got := r.Search(context.Background(), "fight")

	require.Len(t, got, 2)
	assert.Equal(t, []int64{1, 2}, candidateIDs(got))
	assert.Equal(t, media.KindMovie, got[0].Kind)
	assert.Equal(t, media.KindSeries, got[1].Kind)
	assert.Equal(t, "Fight Night", got[1].Title)
	assert.Equal(t, "2008", got[1].Year())
}

func TestSearch_FallbackDedupesToSameID(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)
	secondary := mocks.NewMockSecondaryProvider(ctrl)

	primary.EXPECT().SearchMulti(gomock.Any(), "amelie").Return(nil, nil)
	secondary.EXPECT().Search(gomock.Any(), "amelie").Return([]omdb.SearchResult{
		{Title: "Amélie", IMDBID: "tt0211915"},
		{Title: "Le Fabuleux Destin d'Amélie Poulain", IMDBID: "tt9999999"},
		{Title: "No id"},
	}, nil)
	primary.EXPECT().FindByExternalID(gomock.Any(), "tt0211915").
		Return(&tmdb.FindResult{MovieResults: []tmdb.SearchResult{{ID: 194, Title: "Amélie", PosterPath: "/a.jpg"}}}, nil)
	primary.EXPECT().FindByExternalID(gomock.Any(), "tt9999999").
		Return(&tmdb.FindResult{MovieResults: []tmdb.SearchResult{{ID: 194, Title: "Amélie (alt)", PosterPath: "/b.jpg"}}}, nil)

	r := New(primary, WithSecondary(secondary))
	got := r.Search(context.Background(), "amelie")

	require.Len(t, got, 1)
	assert.Equal(t, int64(194), got[0].ID)
	assert.Equal(t, "Amélie (alt)", got[0].Title, "last occurrence wins")
	assert.Equal(t, media.KindMovie, got[0].Kind)
}

func TestSearch_PrimaryErrorFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)
	secondary := mocks.NewMockSecondaryProvider(ctrl)

	primary.EXPECT().SearchMulti(gomock.Any(), "dark").Return(nil, errors.New("timeout"))
	secondary.EXPECT().Search(gomock.Any(), "dark").Return([]omdb.SearchResult{{IMDBID: "tt5753856"}}, nil)
	primary.EXPECT().FindByExternalID(gomock.Any(), "tt5753856").
		Return(&tmdb.FindResult{TVResults: []tmdb.SearchResult{{ID: 70523, Name: "Dark", PosterPath: "/d.jpg"}}}, nil)

	r := New(primary, WithSecondary(secondary))
	got := r.Search(context.Background(), "dark")

	require.Len(t, got, 1)
	assert.Equal(t, media.KindSeries, got[0].Kind)
	assert.Equal(t, "Dark", got[0].Title)
}

func TestSearch_FallbackPreservesOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)
	secondary := mocks.NewMockSecondaryProvider(ctrl)

	primary.EXPECT().SearchMulti(gomock.Any(), gomock.Any()).Return([]tmdb.SearchResult{}, nil)
	hits := []omdb.SearchResult{{IMDBID: "tt1"}, {IMDBID: "tt2"}, {IMDBID: "tt3"}, {IMDBID: "tt4"}}
	secondary.EXPECT().Search(gomock.Any(), gomock.Any()).Return(hits, nil)
	for i, h := range hits {
		id := int64(i + 1)
		primary.EXPECT().FindByExternalID(gomock.Any(), h.IMDBID).
			Return(&tmdb.FindResult{MovieResults: []tmdb.SearchResult{{ID: id, Title: h.IMDBID, PosterPath: "/x.jpg"}}}, nil)
	}

	r := New(primary, WithSecondary(secondary), WithConcurrency(2))
	got := r.Search(context.Background(), "anything")
	assert.Equal(t, []int64{1, 2, 3, 4}, candidateIDs(got))
}

func TestSearch_FallbackLookupErrorDropsHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)
	secondary := mocks.NewMockSecondaryProvider(ctrl)

	primary.EXPECT().SearchMulti(gomock.Any(), gomock.Any()).Return(nil, nil)
	secondary.EXPECT().Search(gomock.Any(), gomock.Any()).
		Return([]omdb.SearchResult{{IMDBID: "tt1"}, {IMDBID: "tt2"}}, nil)
	primary.EXPECT().FindByExternalID(gomock.Any(), "tt1").Return(nil, tmdb.ErrNotFound)
	primary.EXPECT().FindByExternalID(gomock.Any(), "tt2").
		Return(&tmdb.FindResult{MovieResults: []tmdb.SearchResult{{ID: 2, PosterPath: "/x.jpg"}}}, nil)

	r := New(primary, WithSecondary(secondary))
	assert.Equal(t, []int64{2}, candidateIDs(r.Search(context.Background(), "q")))
}

func TestSearch_NoSecondary(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)
	primary.EXPECT().SearchMulti(gomock.Any(), "nothing").Return(nil, nil)

	r := New(primary)
	assert.Empty(t, r.Search(context.Background(), "nothing"))
}

func TestSearch_IMDBIDUsesFind(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)
	secondary := mocks.NewMockSecondaryProvider(ctrl)

	primary.EXPECT().FindByExternalID(gomock.Any(), "tt0903747").
		Return(&tmdb.FindResult{TVResults: []tmdb.SearchResult{{ID: 1396, Name: "Breaking Bad", PosterPath: "/b.jpg"}}}, nil)
	primary.EXPECT().SearchMulti(gomock.Any(), gomock.Any()).Times(0)
	secondary.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)

	r := New(primary, WithSecondary(secondary))
	got := r.Search(context.Background(), " tt0903747 ")

	require.Len(t, got, 1)
	assert.Equal(t, int64(1396), got[0].ID)
	assert.Equal(t, media.KindSeries, got[0].Kind)
}

func TestSearch_IMDBIDEmptyDoesNotFallBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)
	secondary := mocks.NewMockSecondaryProvider(ctrl)

	primary.EXPECT().FindByExternalID(gomock.Any(), "tt0000001").Return(&tmdb.FindResult{}, nil)
	secondary.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)

	r := New(primary, WithSecondary(secondary))
	assert.Empty(t, r.Search(context.Background(), "tt0000001"))
}

func TestSearch_FiltersKindAndPoster(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)

	primary.EXPECT().SearchMulti(gomock.Any(), "pitt").Return([]tmdb.SearchResult{
		{ID: 287, MediaType: "person", Name: "Brad Pitt", PosterPath: "/p.jpg"},
		{ID: 550, MediaType: tmdb.MediaMovie, Title: "Fight Club"},
		movieHit(1422, "The Departed"),
	}, nil)

	r := New(primary)
	assert.Equal(t, []int64{1422}, candidateIDs(r.Search(context.Background(), "pitt")))
}

func TestSearch_BlankQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)

	r := New(primary)
	assert.Empty(t, r.Search(context.Background(), "   "))
}

func TestIsIMDBID(t *testing.T) {
	assert.True(t, IsIMDBID("tt0137523"))
	assert.False(t, IsIMDBID("tt"))
	assert.False(t, IsIMDBID("nm0000093"))
	assert.False(t, IsIMDBID("tt013x"))
}

func TestExpand_Movie(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)

	primary.EXPECT().Details(gomock.Any(), tmdb.MediaMovie, int64(550)).Return(&tmdb.Details{
		ID:          550,
		Title:       "Fight Club",
		ReleaseDate: "1999-10-15",
		PosterPath:  media.Ptr("/f.jpg"),
		Overview:    "An insomniac office worker...",
		VoteAverage: 8.4,
		Genres:      []tmdb.Genre{{ID: 18, Name: "Drama"}, {ID: 53, Name: "Thriller"}},
		Runtime:     media.Ptr(139),
		ExternalIDs: tmdb.ExternalIDs{IMDBID: media.Ptr("tt0137523")},
	}, nil)

	r := New(primary)
	rec, err := r.Expand(context.Background(), Candidate{ID: 550, Kind: media.KindMovie, Title: "Fight Club"})
	require.NoError(t, err)

	assert.Equal(t, int64(550), rec.ID)
	assert.Equal(t, media.KindMovie, rec.Kind)
	assert.Equal(t, "1999", rec.Year)
	assert.Equal(t, media.StatusPlanToWatch, rec.Status)
	assert.Equal(t, 139, rec.Runtime())
	assert.Equal(t, []string{"Drama", "Thriller"}, rec.Genres)
	require.NotNil(t, rec.IMDBID)
	assert.Equal(t, "tt0137523", *rec.IMDBID)
	assert.Nil(t, rec.Series)
}

func TestExpand_Series(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)

	primary.EXPECT().Details(gomock.Any(), tmdb.MediaTV, int64(1396)).Return(&tmdb.Details{
		ID:              1396,
		Name:            "Breaking Bad",
		FirstAirDate:    "2008-01-20",
		EpisodeRunTime:  []int{45},
		NumberOfSeasons: media.Ptr(2),
		Status:          media.Ptr("Ended"),
		Seasons: []tmdb.Season{
			{SeasonNumber: 1, EpisodeCount: 7, VoteAverage: 8.2},
			{SeasonNumber: 2, EpisodeCount: 13},
		},
		ExternalIDs: tmdb.ExternalIDs{IMDBID: media.Ptr(""), TVDBID: media.Ptr(int64(81189))},
	}, nil)

	r := New(primary)
	rec, err := r.Expand(context.Background(), Candidate{ID: 1396, Kind: media.KindSeries})
	require.NoError(t, err)

	assert.Equal(t, "Breaking Bad", rec.Title)
	assert.Equal(t, "2008", rec.Year)
	assert.Equal(t, media.KindSeries, rec.Kind)
	assert.Nil(t, rec.Movie)
	assert.Equal(t, 45, rec.FirstEpisodeRuntime())
	assert.Equal(t, []string{"1", "2"}, rec.SeasonKeys())

	s1, ok := rec.Season("1")
	require.True(t, ok)
	assert.Equal(t, 0, s1.EpisodesWatched)
	assert.Equal(t, 7, s1.TotalEpisodes)
	require.NotNil(t, s1.AverageRating)
	assert.InDelta(t, 8.2, *s1.AverageRating, 0.001)

	s2, _ := rec.Season("2")
	assert.Nil(t, s2.AverageRating)

	assert.Nil(t, rec.IMDBID, "empty external id is dropped")
	require.NotNil(t, rec.TVDBID)
	assert.Equal(t, int64(81189), *rec.TVDBID)
	require.NotNil(t, rec.Series.ProductionStatus)
	assert.Equal(t, "Ended", *rec.Series.ProductionStatus)
}

func TestExpand_NoDateMeansEmptyYear(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)
	primary.EXPECT().Details(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&tmdb.Details{ID: 9, Title: "Untitled"}, nil)

	rec, err := New(primary).Expand(context.Background(), Candidate{ID: 9, Kind: media.KindMovie, PosterPath: "/c.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "", rec.Year)
	require.NotNil(t, rec.PosterPath)
	assert.Equal(t, "/c.jpg", *rec.PosterPath, "candidate poster fills a missing detail poster")
}

func TestExpand_ProviderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockPrimaryProvider(ctrl)
	primary.EXPECT().Details(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tmdb.ErrRateLimited)

	rec, err := New(primary).Expand(context.Background(), Candidate{ID: 1, Kind: media.KindMovie})
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestDedupe(t *testing.T) {
	in := []Candidate{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}, {ID: 1, Title: "c"}}
	got := dedupe(in)
	require.Len(t, got, 2)
	assert.Equal(t, Candidate{ID: 1, Title: "c"}, got[0])
	assert.Equal(t, Candidate{ID: 2, Title: "b"}, got[1])
}
