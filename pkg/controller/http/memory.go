package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/usecase"
	"github.com/memora-app/memora/pkg/utils/errutil"
	"github.com/memora-app/memora/pkg/utils/safe"
)

// addMemoryHandler handles POST /api/memories (multipart form)
func (s *Server) addMemoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := identityFrom(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	// Form fields are small; the cap exists for the media part
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid multipart form",
			goerr.T(types.ErrTagValidation)))
		return
	}

	text := r.FormValue("text")
	if text == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("text is required", goerr.T(types.ErrTagValidation)))
		return
	}

	input := usecase.AddMemoryInput{Text: text}

	if raw := r.FormValue("date"); raw != "" {
		date, err := parseDate(raw, false)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		input.Date = date
	}

	if raw := r.FormValue("tags"); raw != "" {
		var tags []model.Tag
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "tags must be a JSON array of {name, type}",
				goerr.T(types.ErrTagValidation)))
			return
		}
		input.Tags = tags
	}

	if file, header, err := r.FormFile("media"); err == nil {
		defer safe.Close(ctx, file)

		data, err := io.ReadAll(io.LimitReader(file, s.maxUploadSize+1))
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read media upload",
				goerr.T(types.ErrTagValidation)))
			return
		}
		if int64(len(data)) > s.maxUploadSize {
			errutil.HandleHTTP(ctx, w, goerr.New("media exceeds the upload size limit",
				goerr.T(types.ErrTagValidation),
				goerr.V("limit_bytes", s.maxUploadSize)))
			return
		}

		input.Media = &usecase.MediaUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	memory, err := s.uc.AddMemory(ctx, identity.Sub, input)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, memory)
}

// searchHandler handles GET /api/memories/search
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := identityFrom(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	searchType, err := types.ParseSearchType(r.URL.Query().Get("type"))
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid search type",
			goerr.T(types.ErrTagValidation)))
		return
	}

	input := usecase.SearchInput{
		Query: r.URL.Query().Get("query"),
		Type:  searchType,
	}

	if raw := r.URL.Query().Get("tags"); raw != "" {
		names, err := parseTagNames(raw)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		input.TagNames = names
	}

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		start, err := parseDate(raw, false)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		input.Range.Start = &start
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		end, err := parseDate(raw, true)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err)
			return
		}
		input.Range.End = &end
	}

	memories, err := s.uc.Search(ctx, identity.Sub, input)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, memories)
}

// timelineHandler handles GET /api/memories/timeline
func (s *Server) timelineHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := identityFrom(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	rawStart := r.URL.Query().Get("startDate")
	if rawStart == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("startDate is required", goerr.T(types.ErrTagValidation)))
		return
	}
	rawEnd := r.URL.Query().Get("endDate")
	if rawEnd == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("endDate is required", goerr.T(types.ErrTagValidation)))
		return
	}

	start, err := parseDate(rawStart, false)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}
	end, err := parseDate(rawEnd, true)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	memories, err := s.uc.Timeline(ctx, identity.Sub, start, end)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, memories)
}

// moodMapHandler handles GET /api/memories/moodmap
func (s *Server) moodMapHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := identityFrom(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	points, err := s.uc.MoodMap(ctx, identity.Sub)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, points)
}

// parseDate accepts RFC3339 timestamps and plain dates. A plain end-bound
// date is extended to the end of that day so inclusive ranges behave the
// way date pickers expect.
func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	return time.Time{}, goerr.New("invalid date format (want RFC3339 or YYYY-MM-DD)",
		goerr.T(types.ErrTagValidation),
		goerr.V("value", raw),
	)
}

// parseTagNames accepts a JSON array of names or of {name} objects
func parseTagNames(raw string) ([]string, error) {
	var asStrings []string
	if err := json.Unmarshal([]byte(raw), &asStrings); err == nil {
		return asStrings, nil
	}

	var asTags []model.Tag
	if err := json.Unmarshal([]byte(raw), &asTags); err == nil {
		names := make([]string, len(asTags))
		for i, t := range asTags {
			names[i] = t.Name
		}
		return names, nil
	}

	return nil, goerr.New("tags must be a JSON array of names or {name} objects",
		goerr.T(types.ErrTagValidation),
	)
}
