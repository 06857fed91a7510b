package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lunamood/lunamood/internal/moonphase"
)

type moonPhaseResponse struct {
	Phase        string  `json:"phase"`
	Fraction     float64 `json:"fraction"`
	Illumination float64 `json:"illumination"`
}

// Phase prints the current moon phase. The server is asked first so the
// value matches what gets stamped on new entries; the local ephemeris is
// the offline fallback.
func (a *App) Phase(ctx context.Context) error {
	var resp moonPhaseResponse
	if err := a.api.FetchJSON(ctx, http.MethodGet, "/api/moon-phase", nil, &resp); err != nil {
		now := time.Now()
		resp.Phase = moonphase.At(now).String()
		resp.Illumination = moonphase.Illumination(now)
	}

	fmt.Printf("%s (%.0f%% illuminated)\n", resp.Phase, resp.Illumination*100)
	return nil
}
