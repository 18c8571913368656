package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/identity"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed templates/certificate.html
var certificateTemplates embed.FS

var certificateTmpl = template.Must(template.ParseFS(certificateTemplates, "templates/certificate.html"))

const CertificateFolder = "coded_certificates"

// PDFRenderer turns rendered HTML into a PDF document.
type PDFRenderer func(ctx context.Context, html string) ([]byte, error)

// FileUploader stores a generated file and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, data []byte, publicID string) (string, error)
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, publicID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       u.folder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}

type CertificateService struct {
	db       *gorm.DB
	log      *logger.Logger
	appName  string
	render   PDFRenderer
	uploader FileUploader
	now      func() time.Time
}

func NewCertificateService(db *gorm.DB, baseLog *logger.Logger, appName string, uploader FileUploader, render PDFRenderer) *CertificateService {
	if render == nil {
		render = RenderPDF
	}
	return &CertificateService{
		db:       db,
		log:      baseLog.With("service", "CertificateService"),
		appName:  appName,
		render:   render,
		uploader: uploader,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// OnModuleCompleted is registered as a progress hook; failures are logged.
func (s *CertificateService) OnModuleCompleted(ctx context.Context, userID, moduleID uint) {
	cert, err := s.IssueForModule(ctx, userID, moduleID)
	if err != nil {
		s.log.Error("certificate generation failed", "user_id", userID, "module_id", moduleID, "error", err)
		return
	}
	if cert != nil {
		s.log.Info("certificate issued", "user_id", userID, "module_id", moduleID, "url", cert.CertificateURL)
	}
}

// IssueForModule creates the user's certificate for a module. It returns nil
// when one already exists.
func (s *CertificateService) IssueForModule(ctx context.Context, userID, moduleID uint) (*models.Certificate, error) {
	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.Certificate{}).Where("user_id = ? AND module_id = ?", userID, moduleID).Count(&existing).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	if existing > 0 {
		return nil, nil
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Unexpected(err)
	}
	var module models.LearningModule
	if err := db.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("module")
		}
		return nil, apperr.Unexpected(err)
	}

	now := s.now()
	html, err := s.renderHTML(user.Name(), module, now)
	if err != nil {
		return nil, apperr.Unexpected(fmt.Errorf("render certificate html: %w", err))
	}
	pdf, err := s.render(ctx, html)
	if err != nil {
		return nil, apperr.Unexpected(fmt.Errorf("render certificate pdf: %w", err))
	}
	url, err := s.uploader.Upload(ctx, pdf, fmt.Sprintf("certificates/%d_%s", userID, uuid.New().String()))
	if err != nil {
		return nil, apperr.Unexpected(fmt.Errorf("upload certificate: %w", err))
	}

	cert := models.Certificate{
		UserID:         userID,
		ModuleID:       moduleID,
		CourseTitle:    module.Title,
		CompletionDate: now,
		CertificateURL: url,
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cert)
	if res.Error != nil {
		return nil, apperr.Unexpected(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &cert, nil
}

func (s *CertificateService) ListCertificates(ctx context.Context) ([]models.Certificate, error) {
	userID, ok := identity.UserID(ctx)
	if !ok {
		return nil, apperr.Unauthenticated()
	}
	certs := []models.Certificate{}
	err := s.db.WithContext(ctx).Preload("Module").
		Where("user_id = ?", userID).
		Order("completion_date desc").
		Find(&certs).Error
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return certs, nil
}

func (s *CertificateService) renderHTML(learner string, module models.LearningModule, at time.Time) (string, error) {
	data := struct {
		LearnerName    string
		Language       string
		CourseTitle    string
		CompletionDate string
		AppName        string
	}{
		LearnerName:    learner,
		Language:       module.Language,
		CourseTitle:    module.Title,
		CompletionDate: at.Format("January 2, 2006"),
		AppName:        s.appName,
	}

	var buf bytes.Buffer
	if err := certificateTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPDF prints HTML to PDF with a headless browser.
func RenderPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.WithoutCancel(ctx))
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	defer cancelTimeout()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}
