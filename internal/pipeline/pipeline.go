package pipeline

import (
	"context"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"autotag/internal/config"
	"autotag/internal/identify"
	"autotag/internal/logging"
	"autotag/internal/match"
	"autotag/internal/media"
	"autotag/internal/media/fpcalc"
	"autotag/internal/providers/acoustid"
	"autotag/internal/providers/discogs"
	"autotag/internal/providers/musicbrainz"
	"autotag/internal/providers/spotify"
	"autotag/internal/record"
	"autotag/internal/services"
	"autotag/internal/textutil"
	"autotag/internal/workers"
)

// enrichmentFillFloor is the weakest broad-search hit the fill pass will take
// field values from.
const enrichmentFillFloor = 0.10

// freeSearchCorrectionFloor gates identity corrections when the search had no
// artist to anchor on and so scored in free-text mode.
const freeSearchCorrectionFloor = 0.20

// FingerprintSource resolves an audio fingerprint to recording candidates.
type FingerprintSource interface {
	Lookup(ctx context.Context, fingerprint string, durationSecs int) ([]acoustid.Candidate, error)
}

// RecordingSource resolves a recording identifier to its canonical metadata.
type RecordingSource interface {
	Recording(ctx context.Context, id string) (*musicbrainz.Recording, bool, error)
}

// StreamingSource searches the streaming catalog, fielded or free-text.
type StreamingSource interface {
	SearchTrack(ctx context.Context, artist, title string, limit int) ([]spotify.Track, error)
	SearchBroad(ctx context.Context, query, refArtist, refTitle string, limit int) ([]spotify.Track, error)
}

// CatalogSource finds and scores editorial catalog releases for an identity.
type CatalogSource interface {
	Match(ctx context.Context, id match.Identity, sanity identify.Sanity) (*match.Result, error)
}

// Deps collects the provider clients the pipeline consults.
type Deps struct {
	AcoustID    FingerprintSource
	MusicBrainz RecordingSource
	Spotify     StreamingSource
	Catalog     CatalogSource
}

// Options holds per-run switches that are not provider configuration.
type Options struct {
	// Apply writes accepted records back into the files. When false the
	// pipeline is a dry run and never touches the audio.
	Apply bool
	// FpcalcBinary overrides the fingerprint extractor on PATH.
	FpcalcBinary string
}

// Pipeline reconciles provider answers into one record per audio file.
type Pipeline struct {
	matching config.Matching
	output   config.Output
	poolSize int
	opts     Options
	deps     Deps
	selector *identify.Selector
	logger   *slog.Logger

	fingerprint func(ctx context.Context, binary, path string) (fpcalc.Result, error)
	readTags    func(path string) (media.Tags, error)
	writeTags   func(path string, rec *record.UnifiedTrackRecord, cover []byte) error
	fetchCover  func(ctx context.Context, url string) ([]byte, error)
}

// New constructs a pipeline over the given providers. Every provider is
// required; run with credentials withheld upstream if a source should sit out.
func New(cfg *config.Config, deps Deps, opts Options, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new", "config is required", nil)
	}
	if deps.AcoustID == nil || deps.MusicBrainz == nil || deps.Spotify == nil || deps.Catalog == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new", "all provider clients are required", nil)
	}
	log := logging.NewComponentLogger(logger, "pipeline")
	return &Pipeline{
		matching: cfg.Matching,
		output:   cfg.Output,
		poolSize: cfg.Workers.Count,
		opts:     opts,
		deps:     deps,
		selector: identify.NewSelector(cfg.Matching.MinCombinedScore, logger),
		logger:   log,

		fingerprint: fpcalc.Extract,
		readTags:    media.ReadTags,
		writeTags:   media.WriteTags,
		fetchCover:  media.FetchCover,
	}, nil
}

// Run processes every path on a bounded worker pool and returns one outcome
// per path, in completion order.
func (p *Pipeline) Run(ctx context.Context, paths []string) []Outcome {
	return workers.Run(ctx, p.poolSize, paths, p.Process)
}

// Process runs one file through the full reconciliation flow: fingerprint,
// canonical enrichment, streaming cross-check, catalog match, fill pass, and
// the final confidence guardrail.
func (p *Pipeline) Process(ctx context.Context, path string) Outcome {
	base := filepath.Base(path)
	log := p.logger.With(logging.String("file", base))

	tags, err := p.readTags(path)
	if err != nil {
		log.Warn("tag read failed, treating file as untagged", logging.Error(err))
		tags = media.Tags{}
	}
	ref := identify.ResolveReference(tags.Title, tags.Artist, base)

	if tags.Complete() && !p.output.OverwriteExisting {
		log.Info("tags already complete, leaving file untouched")
		rec := &record.UnifiedTrackRecord{}
		rec.Merge(record.SourceLocal, localPatch(tags, ref))
		return Outcome{Path: path, State: StateFinalized, Record: rec}
	}

	fp, err := p.fingerprint(ctx, p.opts.FpcalcBinary, path)
	if err != nil {
		return Outcome{Path: path, State: StatePending, Err: err}
	}

	rec := &record.UnifiedTrackRecord{DurationSecs: float64(fp.DurationSecs)}
	rec.Merge(record.SourceLocal, localPatch(tags, ref))

	candidates, err := p.deps.AcoustID.Lookup(ctx, fp.Fingerprint, fp.DurationSecs)
	if err != nil {
		return Outcome{Path: path, State: StateFingerprinted, Err: err}
	}
	best, combined, matched := p.selector.Select(candidates, ref)
	if matched {
		rec.IDs.AcoustID = best.AcoustID
		rec.Confidence = combined
		p.enrichCanonical(ctx, log, rec, best)
	} else {
		log.Info("no fingerprint candidate survived selection",
			logging.Int("candidates", len(candidates)))
	}

	sanity := identify.AnalyzeSanity(base, tags.Title, tags.Artist, rec.Artist, rec.Title)
	if sanity.Flagged() {
		log.Info("local evidence flagged",
			logging.Float64("sanity", sanity.Score))
	}

	streamingArtist, streamingAccepted := p.crossCheckStreaming(ctx, log, rec, fp.DurationSecs)

	catalog := p.matchCatalog(ctx, log, rec, sanity, streamingArtist, streamingAccepted)
	if catalog != nil && !streamingAccepted {
		rec.Confidence = catalog.Confidence
		rec.Label = catalog.Label
	}

	p.fillGaps(ctx, log, rec, sanity, streamingAccepted)

	// A cancelled run leaves the record partially populated; it must never
	// reach the guardrail or the writer.
	if err := ctx.Err(); err != nil {
		return Outcome{Path: path, State: StateCrossChecked, Record: rec, Err: err}
	}

	if rec.Genre == "" {
		rec.Merge(record.SourceLocal, record.Patch{Genre: p.output.DefaultGenre})
	}
	if rec.Label == "" {
		rec.Label = match.LabelFor(rec.Confidence, sanity.Score, sanity.Flagged())
	}

	if reason, rejected := p.guardrail(rec); rejected {
		log.Info("record rejected",
			logging.String("reason", reason),
			logging.Float64("confidence", rec.Confidence))
		return Outcome{Path: path, State: StateRejected, Record: rec, Reason: reason}
	}

	if p.opts.Apply {
		if err := p.write(ctx, log, path, rec); err != nil {
			return Outcome{Path: path, State: StateCrossChecked, Record: rec, Err: err}
		}
	}
	log.Info("record finalized",
		logging.String("artist", rec.Artist),
		logging.String("title", rec.Title),
		logging.Float64("confidence", rec.Confidence),
		logging.String("label", string(rec.Label)))
	return Outcome{Path: path, State: StateFinalized, Record: rec}
}

// enrichCanonical pulls the matched recording from the canonical encyclopedia
// and merges the recording plus its best release into the record.
func (p *Pipeline) enrichCanonical(ctx context.Context, log *slog.Logger, rec *record.UnifiedTrackRecord, best acoustid.Candidate) {
	recording, found, err := p.deps.MusicBrainz.Recording(ctx, best.RecordingID)
	if err != nil {
		log.Warn("recording lookup failed", logging.Error(err))
		rec.Merge(record.SourceMusicBrainz, record.Patch{Title: best.Title, Artist: best.Artist})
		rec.IDs.MusicBrainzTrack = best.RecordingID
		return
	}
	if !found {
		rec.Merge(record.SourceMusicBrainz, record.Patch{Title: best.Title, Artist: best.Artist})
		rec.IDs.MusicBrainzTrack = best.RecordingID
		return
	}

	patch := record.Patch{
		Title:  recording.Title,
		Artist: recording.ArtistNames(),
	}
	if len(recording.ISRCs) > 0 {
		patch.ISRC = recording.ISRCs[0]
	}
	if len(recording.Tags) > 0 {
		patch.Genre = cases.Title(language.English).String(recording.Tags[0])
	}
	rel, hasRelease := identify.SelectRelease(recording.Title, recording.Releases)
	if hasRelease {
		patch.Album = rel.Title
		patch.ReleaseDate = rel.Date
		patch.Year = yearFromDate(rel.Date)
		patch.Country = rel.Country
		patch.ReleaseStatus = rel.Status
		patch.ReleaseType = rel.ReleaseGroupType
		patch.MediaFormat = strings.Join(rel.MediaFormats, ", ")
		patch.TrackNumber = rel.TrackNumber
		patch.DiscNumber = rel.DiscNumber
		rec.IDs.MusicBrainzRelease = rel.ID
	}
	rec.Merge(record.SourceMusicBrainz, patch)
	rec.IDs.MusicBrainzTrack = recording.ID
	if len(recording.Artists) > 0 {
		rec.IDs.MusicBrainzArtist = recording.Artists[0].ID
	}
}

// crossCheckStreaming asks the streaming catalog for the current identity and,
// when the hit clears the accept floor and the duration agrees with the audio,
// lets it overwrite the identity wholesale. A miss discards the streaming
// answer entirely rather than keeping a weak one around.
func (p *Pipeline) crossCheckStreaming(ctx context.Context, log *slog.Logger, rec *record.UnifiedTrackRecord, durationSecs int) (string, bool) {
	if rec.Title == "" || rec.Artist == "" {
		// Without an artist the fielded search has nothing to anchor on;
		// the broad fill pass covers that case later.
		return "", false
	}
	tracks, err := p.deps.Spotify.SearchTrack(ctx, rec.Artist, rec.Title, 0)
	if err != nil {
		log.Warn("streaming search failed", logging.Error(err))
		return "", false
	}
	if len(tracks) == 0 {
		return "", false
	}
	track := tracks[0]
	if track.Score < p.matching.StreamingAcceptFloor {
		log.Debug("streaming hit below accept floor",
			logging.Float64("score", track.Score))
		return "", false
	}
	if !durationAgrees(track.DurationMS, durationSecs, p.matching.DurationToleranceSeconds) {
		log.Info("streaming hit discarded, duration disagrees with audio",
			logging.Int("track_ms", track.DurationMS),
			logging.Int("audio_secs", durationSecs))
		return "", false
	}

	rec.Merge(record.SourceSpotify, trackPatch(track))
	rec.IDs.Spotify = track.ID
	rec.Confidence = track.Score
	log.Debug("streaming identity accepted",
		logging.String("artist", track.Artist),
		logging.String("title", track.Title),
		logging.Float64("score", track.Score))
	return track.Artist, true
}

// matchCatalog runs the editorial catalog matcher and merges the winning
// release. When the streaming identity was accepted, a catalog artist that
// barely overlaps it is treated as a homonym collision and dropped whole.
func (p *Pipeline) matchCatalog(ctx context.Context, log *slog.Logger, rec *record.UnifiedTrackRecord, sanity identify.Sanity, streamingArtist string, streamingAccepted bool) *match.Result {
	id := match.Identity{
		Artist:       rec.Artist,
		Title:        rec.Title,
		ReleaseTitle: rec.Album,
		Country:      rec.Editorial.Country,
		Year:         yearInt(rec.Year),
	}
	res, err := p.deps.Catalog.Match(ctx, id, sanity)
	if err != nil {
		log.Warn("catalog match failed", logging.Error(err))
		return nil
	}
	if !res.Matched() {
		return nil
	}
	if streamingAccepted && res.Candidate.Artist != "" {
		overlap := textutil.TokenJaccard(streamingArtist, res.Candidate.Artist)
		if overlap < p.matching.ArtistOverlapFloor {
			log.Info("catalog result discarded, artist disagrees with streaming identity",
				logging.String("catalog_artist", res.Candidate.Artist),
				logging.Float64("overlap", overlap))
			return nil
		}
	}
	p.mergeCatalog(log, rec, res)
	return res
}

func (p *Pipeline) mergeCatalog(log *slog.Logger, rec *record.UnifiedTrackRecord, res *match.Result) {
	cand := res.Candidate
	patch := record.Patch{
		Album:         cand.Title,
		Year:          cand.Year,
		Country:       cand.Country,
		Publisher:     cand.Label,
		CatalogNumber: cand.CatNo,
		MediaFormat:   strings.Join(cand.Formats, ", "),
		ReleaseType:   cand.Type,
		Styles:        cand.Styles,
		CoverURL:      cand.CoverURL,
	}
	if len(cand.Genres) > 0 {
		patch.Genre = cand.Genres[0]
	}
	if detail := res.Detail; detail != nil {
		if len(detail.Labels) > 0 {
			patch.Publisher = detail.Labels[0]
		}
		if detail.CatNo != "" {
			patch.CatalogNumber = detail.CatNo
		}
		if len(detail.Styles) > 0 {
			patch.Styles = detail.Styles
		}
		patch.CreditsMastering = detail.CreditByRole("master")
		patch.CreditsMixing = detail.CreditByRole("mix")
		patch.Remixer = detail.CreditByRole("remix")
		if detail.CoverURL != "" {
			patch.CoverURL = detail.CoverURL
		}
		if pos, ok := tracklistPosition(detail, rec.Title, rec.DurationSecs, p.matching.DurationToleranceSeconds); ok {
			patch.TrackNumber = pos
		} else if len(detail.Tracklist) > 0 {
			log.Debug("tracklist position not confirmed",
				logging.Int("tracks", len(detail.Tracklist)))
		}
	}
	rec.Merge(record.SourceDiscogs, patch)
	rec.IDs.DiscogsRelease = strconv.FormatInt(cand.ID, 10)
	if cand.MasterID > 0 {
		rec.IDs.DiscogsMaster = strconv.FormatInt(cand.MasterID, 10)
	}
}

// fillGaps runs a broad streaming search when release-level fields are still
// missing after the providers above had their say. Strong hits may also
// correct the identity, which earns the catalog one more attempt.
func (p *Pipeline) fillGaps(ctx context.Context, log *slog.Logger, rec *record.UnifiedTrackRecord, sanity identify.Sanity, streamingAccepted bool) {
	if rec.Title == "" {
		return
	}
	if rec.Album != "" && rec.Year != "" && rec.Editorial.Publisher != "" {
		return
	}

	freeSearch := rec.Artist == ""
	queries := []string{strings.TrimSpace(rec.Artist + " " + rec.Title)}
	if !freeSearch {
		queries = append(queries, rec.Title+" "+rec.Artist)
	}
	seen := make(map[string]struct{})
	var hits []spotify.Track
	for _, q := range queries {
		tracks, err := p.deps.Spotify.SearchBroad(ctx, q, rec.Artist, rec.Title, 0)
		if err != nil {
			log.Warn("broad streaming search failed", logging.Error(err))
			continue
		}
		for _, t := range tracks {
			if _, dup := seen[t.ID]; dup {
				continue
			}
			seen[t.ID] = struct{}{}
			hits = append(hits, t)
		}
	}
	if len(hits) == 0 {
		return
	}
	best := hits[0]
	for _, t := range hits[1:] {
		if t.Score > best.Score {
			best = t
		}
	}
	if best.Score <= enrichmentFillFloor {
		return
	}

	fill := trackPatch(best)
	fill.Title = ""
	fill.Artist = ""
	albumBefore := rec.Album
	rec.Merge(record.SourceSpotify, fill)
	if rec.IDs.Spotify == "" {
		rec.IDs.Spotify = best.ID
	}

	correct := best.Score > p.matching.IdentityCorrectionFloor ||
		(freeSearch && best.Score > freeSearchCorrectionFloor)
	if streamingAccepted || !correct {
		if albumBefore == "" && rec.Album != "" && rec.Editorial.Publisher == "" {
			// A recovered release title unlocks the catalog's
			// artist+release query variant.
			p.rematchCatalog(ctx, log, rec, sanity)
		}
		return
	}
	log.Info("identity corrected from broad streaming search",
		logging.String("artist", best.Artist),
		logging.String("title", best.Title),
		logging.Float64("score", best.Score))
	rec.CorrectIdentity(record.SourceSpotify, best.Title, best.Artist)
	if rec.Confidence < best.Score {
		rec.Confidence = best.Score
	}
	// Pre-correction labels no longer describe the record.
	rec.Label = ""
	if rec.Editorial.Publisher == "" {
		// The catalog never saw the corrected identity; one more pass.
		p.rematchCatalog(ctx, log, rec, sanity)
	}
}

// rematchCatalog gives the catalog one more attempt after the fill pass
// changed what it would search for.
func (p *Pipeline) rematchCatalog(ctx context.Context, log *slog.Logger, rec *record.UnifiedTrackRecord, sanity identify.Sanity) {
	res, err := p.deps.Catalog.Match(ctx, match.Identity{
		Artist:       rec.Artist,
		Title:        rec.Title,
		ReleaseTitle: rec.Album,
		Country:      rec.Editorial.Country,
		Year:         yearInt(rec.Year),
	}, sanity)
	if err != nil {
		log.Warn("catalog rematch failed", logging.Error(err))
		return
	}
	if res.Matched() {
		p.mergeCatalog(log, rec, res)
		if rec.Confidence < res.Confidence {
			rec.Confidence = res.Confidence
			rec.Label = res.Label
		}
	}
}

// guardrail decides whether the record may be written. A record that gathered
// evidence but stayed below the floor is rejected outright; a record with no
// confidence at all is kept only when the identity itself is known.
func (p *Pipeline) guardrail(rec *record.UnifiedTrackRecord) (string, bool) {
	id := record.TrackIdentity{Title: rec.Title, Artist: rec.Artist}
	if rec.Confidence == 0 {
		if id.Known() {
			return "", false
		}
		return "no provider produced an identity", true
	}
	if rec.Confidence < p.matching.FinalRejectBelow {
		return "confidence below reject floor", true
	}
	return "", false
}

func (p *Pipeline) write(ctx context.Context, log *slog.Logger, path string, rec *record.UnifiedTrackRecord) error {
	var cover []byte
	if p.output.EmbedCover && rec.CoverURL != "" {
		var err error
		cover, err = p.fetchCover(ctx, rec.CoverURL)
		if err != nil {
			log.Warn("cover fetch failed, writing without artwork", logging.Error(err))
			cover = nil
		}
	}
	return p.writeTags(path, rec, cover)
}

func localPatch(tags media.Tags, ref identify.Reference) record.Patch {
	patch := record.Patch{
		Title:       ref.Title,
		Artist:      ref.Artist,
		Album:       tags.Album,
		AlbumArtist: tags.AlbumArtist,
		Genre:       tags.Genre,
		TrackNumber: tags.Track,
		DiscNumber:  tags.Disc,
	}
	if tags.Year > 0 {
		patch.Year = strconv.Itoa(tags.Year)
	}
	return patch
}

func trackPatch(track spotify.Track) record.Patch {
	patch := record.Patch{
		Title:       track.Title,
		Artist:      track.Artist,
		Album:       track.Album,
		AlbumArtist: track.AlbumArtist,
		TrackNumber: track.TrackNumber,
		DiscNumber:  track.DiscNumber,
		ISRC:        track.ISRC,
		CoverURL:    track.CoverURL,
		Explicit:    track.Explicit,
		ExplicitSet: true,
	}
	if track.Year > 0 {
		patch.Year = strconv.Itoa(track.Year)
	}
	return patch
}

// tracklistPosition locates the record's title on a release tracklist. The
// position only counts when its listed duration agrees with the audio, so a
// same-named track on a different pressing cannot smuggle in a wrong number.
func tracklistPosition(detail *discogs.ReleaseDetail, title string, durationSecs, toleranceSecs float64) (int, bool) {
	if title == "" {
		return 0, false
	}
	bestSim := 0.0
	var bestTrack discogs.TrackPosition
	for _, tp := range detail.Tracklist {
		if sim := textutil.TokenJaccard(tp.Title, title); sim > bestSim {
			bestSim = sim
			bestTrack = tp
		}
	}
	if bestSim < 0.5 {
		return 0, false
	}
	if secs, ok := parseTracklistDuration(bestTrack.Duration); ok && durationSecs > 0 {
		if math.Abs(secs-durationSecs) > toleranceSecs {
			return 0, false
		}
	}
	pos, err := strconv.Atoi(strings.TrimSpace(bestTrack.Position))
	if err != nil {
		// Vinyl positions like "A1" carry no usable track number.
		return 0, false
	}
	return pos, true
}

// parseTracklistDuration reads the catalog's "m:ss" (or "h:mm:ss") form.
func parseTracklistDuration(s string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	total := 0.0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + float64(n)
	}
	return total, true
}

func durationAgrees(trackMS, audioSecs int, toleranceSecs float64) bool {
	if trackMS <= 0 || audioSecs <= 0 {
		return true
	}
	diff := math.Abs(float64(trackMS)/1000 - float64(audioSecs))
	return diff <= toleranceSecs
}

func yearFromDate(date string) string {
	if len(date) < 4 {
		return ""
	}
	year := date[:4]
	if _, err := strconv.Atoi(year); err != nil {
		return ""
	}
	return year
}

func yearInt(year string) int {
	n, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return 0
	}
	return n
}
