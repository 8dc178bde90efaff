package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wrd-mh/pah-award-api/internal/models"
	"github.com/wrd-mh/pah-award-api/pkg/export"
	"github.com/wrd-mh/pah-award-api/pkg/storage"
)

type reportDataSource interface {
	List(ctx context.Context, filter models.NominationFilter) ([]models.Nomination, error)
	GetByID(ctx context.Context, id string) (*models.Nomination, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type certificateRenderer interface {
	Render(cert export.Certificate) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds report datasets and persists rendered files.
type ExportService struct {
	nominations reportDataSource
	wuas        wuaReader
	storage     fileStorage
	csv         csvRenderer
	pdf         pdfRenderer
	certs       certificateRenderer
	signer      *storage.SignedURLSigner
	logger      *zap.Logger
	cfg         ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(nominations reportDataSource, wuas wuaReader, storage fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		nominations: nominations,
		wuas:        wuas,
		storage:     storage,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		certs:       export.NewCertificateRenderer(),
		signer:      signer,
		logger:      logger,
		cfg:         cfg,
	}
}

// Generate builds the payload for a job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}

	var payload []byte
	var err error
	switch job.Type {
	case models.ReportTypeCertificate:
		payload, err = s.renderCertificate(ctx, job.Params)
	case models.ReportTypeWinners, models.ReportTypePipeline:
		var dataset export.Dataset
		dataset, err = s.buildDataset(ctx, job)
		if err != nil {
			return nil, err
		}
		switch job.Params.Format {
		case models.ReportFormatCSV:
			payload, err = s.csv.Render(dataset)
		case models.ReportFormatPDF:
			payload, err = s.pdf.Render(dataset)
		default:
			err = fmt.Errorf("unsupported format %s", job.Params.Format)
		}
	default:
		err = fmt.Errorf("unsupported report type %s", job.Type)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/reports/download/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	name := fmt.Sprintf("%s_%d_%s.%s", strings.ToLower(string(job.Type)), job.Params.Year, timestamp, job.Params.Format)
	return name
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, error) {
	switch job.Type {
	case models.ReportTypeWinners:
		return s.buildWinnersDataset(ctx, job.Params)
	case models.ReportTypePipeline:
		return s.buildPipelineDataset(ctx, job.Params)
	default:
		return export.Dataset{}, fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildWinnersDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	rows, err := s.nominations.List(ctx, models.NominationFilter{
		Year:   params.Year,
		Status: models.StatusCompleted,
	})
	if err != nil {
		return export.Dataset{}, err
	}
	dataRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		if row.FinalStatus == nil || *row.FinalStatus != models.FinalStatusWinner {
			continue
		}
		wua, err := s.wuas.FindByID(ctx, row.WUAID)
		if err != nil {
			return export.Dataset{}, fmt.Errorf("resolve wua %s: %w", row.WUAID, err)
		}
		dataRows = append(dataRows, []string{
			row.ApplicationNumber,
			wua.Name,
			wua.District,
			string(row.Category),
			fmt.Sprintf("%d", row.SelfAssessmentScore),
			formatScorePtr(row.CorporationCommitteeScore),
			formatScorePtr(row.StateCommitteeScore),
			formatScorePtr(row.GrandTotalScore),
			formatTierPtr(row.AwardCategory),
		})
	}
	return export.Dataset{
		Title:   fmt.Sprintf("Award Winners %d", params.Year),
		Columns: []string{"Application No", "WUA", "District", "Category", "Self Score", "Corporation Score", "State Score", "Grand Total", "Award Tier"},
		Rows:    dataRows,
	}, nil
}

func (s *ExportService) buildPipelineDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	rows, err := s.nominations.List(ctx, models.NominationFilter{Year: params.Year})
	if err != nil {
		return export.Dataset{}, err
	}
	dataRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		dataRows = append(dataRows, []string{
			row.ApplicationNumber,
			string(row.Category),
			string(row.Status),
			string(row.CurrentStage),
			fmt.Sprintf("%d", row.SelfAssessmentScore),
			formatScorePtr(row.CircleCommitteeScore),
			formatScorePtr(row.CorporationCommitteeScore),
			formatScorePtr(row.StateCommitteeScore),
			formatScorePtr(row.GrandTotalScore),
		})
	}
	return export.Dataset{
		Title:   fmt.Sprintf("Nomination Pipeline %d", params.Year),
		Columns: []string{"Application No", "Category", "Status", "Stage", "Self Score", "Circle Endorsement", "Corporation Score", "State Score", "Grand Total"},
		Rows:    dataRows,
	}, nil
}

func (s *ExportService) renderCertificate(ctx context.Context, params models.ReportJobParams) ([]byte, error) {
	if params.NominationID == "" {
		return nil, fmt.Errorf("certificate requires a nomination id")
	}
	nomination, err := s.nominations.GetByID(ctx, params.NominationID)
	if err != nil {
		return nil, err
	}
	if nomination.Status != models.StatusCompleted || nomination.FinalStatus == nil || *nomination.FinalStatus != models.FinalStatusWinner {
		return nil, fmt.Errorf("nomination %s is not a completed winner", params.NominationID)
	}
	wua, err := s.wuas.FindByID(ctx, nomination.WUAID)
	if err != nil {
		return nil, fmt.Errorf("resolve wua %s: %w", nomination.WUAID, err)
	}
	grandTotal := 0
	if nomination.GrandTotalScore != nil {
		grandTotal = *nomination.GrandTotalScore
	}
	return s.certs.Render(export.Certificate{
		ApplicationNumber: nomination.ApplicationNumber,
		WUAName:           wua.Name,
		District:          wua.District,
		Year:              nomination.ApplicationYear,
		AwardTier:         formatTierPtr(nomination.AwardCategory),
		GrandTotalScore:   grandTotal,
		IssuedOn:          time.Now().UTC().Format("02 Jan 2006"),
	})
}

func formatScorePtr(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func formatTierPtr(t *models.AwardTier) string {
	if t == nil {
		return ""
	}
	return string(*t)
}
