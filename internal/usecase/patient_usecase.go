package usecase

import (
	"context"
	"errors"
	"io"
	"time"

	"healthsure/internal/converter"
	"healthsure/internal/delivery/dto"
	"healthsure/internal/domain/entity"
	"healthsure/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrInvalidDOB      = errors.New("invalid date of birth format, use YYYY-MM-DD")
)

// ImageStore persists an uploaded patient photo and returns the public
// URL path it will be served from.
type ImageStore interface {
	Save(filename string, r io.Reader) (string, error)
}

// ImageUpload is an uploaded photo as it comes off the multipart form
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

type PatientUsecase interface {
	ListPatients(ctx context.Context, searchTerm string) (*dto.PatientListResponse, error)
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest, image *ImageUpload) (*dto.CreatePatientResponse, error)
}

type patientUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	patientRepo repository.PatientRepository
	imageStore  ImageStore
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	imageStore ImageStore,
) PatientUsecase {
	return &patientUsecase{
		db:          db,
		log:         log,
		patientRepo: patientRepo,
		imageStore:  imageStore,
	}
}

// ListPatients returns patients whose name or phone contains searchTerm
// (case-insensitive; empty matches all), each with its Active policy count.
func (u *patientUsecase) ListPatients(ctx context.Context, searchTerm string) (*dto.PatientListResponse, error) {
	rows, err := u.patientRepo.Search(u.db.WithContext(ctx), searchTerm)
	if err != nil {
		u.log.Warnf("Failed to search patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientRowsToResponses(rows),
		Total:    len(rows),
	}, nil
}

// CreatePatient registers a new patient. The optional photo is persisted
// first so a failed insert never leaves a row pointing at a missing file.
func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest, image *ImageUpload) (*dto.CreatePatientResponse, error) {
	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		return nil, ErrInvalidDOB
	}

	var imageURL *string
	if image != nil {
		url, err := u.imageStore.Save(image.Filename, image.Reader)
		if err != nil {
			u.log.Warnf("Failed to store patient image: %+v", err)
			return nil, err
		}
		imageURL = &url
	}

	patient := &entity.Patient{
		ID:       uuid.New(),
		Name:     req.FirstName + " " + req.LastName,
		Phone:    req.Phone,
		City:     req.Address,
		DOB:      dob,
		ImageURL: imageURL,
	}
	if req.Email != "" {
		patient.Email = &req.Email
	}

	if err := u.patientRepo.Create(u.db.WithContext(ctx), patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient created: id=%s, name=%s", patient.ID, patient.Name)
	return &dto.CreatePatientResponse{PatientID: patient.ID}, nil
}
