package handler

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"forecast-go/internal/config"
	"forecast-go/pkg/export"
	"forecast-go/pkg/ingest"
	"forecast-go/pkg/logger"
	"forecast-go/pkg/model"
)

// Controller exposes the projection model over HTTP. It owns no state
// between requests; every projection run is computed fresh from the
// uploaded sheet.
type Controller struct {
	cfg        *config.Config
	reader     *ingest.Reader
	projector  *model.Projector
	aggregator *model.Aggregator
	log        *logger.Logger
}

// NewController wires the controller with its collaborators.
func NewController(cfg *config.Config, projector *model.Projector, aggregator *model.Aggregator) *Controller {
	return &Controller{
		cfg:        cfg,
		reader:     ingest.NewReader(cfg.Policy.DefaultDifficulty),
		projector:  projector,
		aggregator: aggregator,
		log:        logger.GetLogger().WithField("component", "http_handler"),
	}
}

// Register attaches the API routes to the fiber app.
func (ct *Controller) Register(app *fiber.App) {
	app.Get("/healthz", ct.handleHealth)
	app.Post("/api/v1/projections", ct.handleProjection)
}

func (ct *Controller) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ProjectionResponse is the JSON payload for a projection run.
type ProjectionResponse struct {
	Months   int                 `json:"months"`
	Mode     model.Mode          `json:"mode"`
	RowCount int                 `json:"row_count"`
	Warnings ingest.Warnings     `json:"warnings"`
	Pages    []model.PageSummary `json:"pages"`
}

// handleProjection accepts a multipart CSV upload in the "file" field and
// returns the page summary table. Query parameters: months, mode, top,
// min_score, format (json or csv). The top and min_score filters shape
// the output view only; scoring always runs over the full sheet.
func (ct *Controller) handleProjection(c *fiber.Ctx) error {
	months := c.QueryInt("months", ct.cfg.Projection.DefaultMonths)
	if months < 1 || months > ct.cfg.Projection.MaxMonths {
		return badRequest(c, fmt.Sprintf("months must be between 1 and %d", ct.cfg.Projection.MaxMonths))
	}

	mode, err := model.ParseMode(c.Query("mode", ct.cfg.Projection.DefaultMode))
	if err != nil {
		return badRequest(c, err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "multipart field \"file\" with a CSV sheet is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "failed to open uploaded file")
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return badRequest(c, "failed to read uploaded file")
	}

	parsed, err := ct.reader.ReadBytes(raw)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if len(parsed.Rows) == 0 {
		return badRequest(c, "sheet contains no usable keyword rows")
	}

	records, err := ct.projector.Project(c.Context(), parsed.Rows, months, mode)
	if err != nil {
		ct.log.WithError(err).Error("Projection failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "projection failed"})
	}
	summaries := ct.aggregator.Summarize(records, months)
	export.SortByScore(summaries)

	summaries = filterView(summaries, c.QueryInt("top", 0), c.QueryFloat("min_score", 0))

	ct.log.WithFields(map[string]interface{}{
		"rows":   len(parsed.Rows),
		"pages":  len(summaries),
		"months": months,
		"mode":   mode,
	}).Info("Projection served")

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, summaries, months); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "csv rendering failed"})
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="projected_traffic_by_page.csv"`)
		return c.Send(buf.Bytes())
	}

	return c.JSON(ProjectionResponse{
		Months:   months,
		Mode:     mode,
		RowCount: len(parsed.Rows),
		Warnings: parsed.Warnings,
		Pages:    summaries,
	})
}

// filterView applies the optional output-view filters.
func filterView(summaries []model.PageSummary, top int, minScore float64) []model.PageSummary {
	filtered := summaries
	if minScore > 0 {
		filtered = make([]model.PageSummary, 0, len(summaries))
		for _, summary := range summaries {
			if summary.FinalPageScore >= minScore {
				filtered = append(filtered, summary)
			}
		}
	}
	if top > 0 && top < len(filtered) {
		filtered = filtered[:top]
	}
	return filtered
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
