package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/engel-trans/service-checkout/internal/apperror"
	"github.com/engel-trans/service-checkout/internal/application"
	"github.com/engel-trans/service-checkout/internal/domain/booking"
	"github.com/engel-trans/service-checkout/internal/response"
	"github.com/gin-gonic/gin"
)

// maxEstimateBody bounds the whole multipart body: five files plus the form fields.
const maxEstimateBody = application.MaxEstimateFiles*booking.MaxAttachmentBytes + 1<<20

// EstimateHandler handles detailed quote requests with attachments.
type EstimateHandler struct {
	service *application.EstimateService
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(service *application.EstimateService) *EstimateHandler {
	return &EstimateHandler{service: service}
}

// RegisterRoutes registers the estimate route.
func (h *EstimateHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/estimates/request", h.RequestEstimate)
}

// RequestEstimate handles POST /estimates/request (multipart/form-data).
func (h *EstimateHandler) RequestEstimate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxEstimateBody)

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}

	req, err := estimateFromForm(form)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.RequestEstimate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func estimateFromForm(form *multipart.Form) (application.EstimateRequest, error) {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	var distance float64
	if raw := value("distance"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return application.EstimateRequest{}, apperror.NewFieldError("distance", "distance must be a number")
		}
		distance = d
	}

	services, err := parseServices(value("selectedServices"))
	if err != nil {
		return application.EstimateRequest{}, err
	}

	headers := form.File["files"]
	if len(headers) > application.MaxEstimateFiles {
		return application.EstimateRequest{}, apperror.NewFieldError("files",
			fmt.Sprintf("at most %d files may be attached", application.MaxEstimateFiles))
	}
	files := make([]application.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return application.EstimateRequest{}, err
		}
		files = append(files, application.UploadedFile{Filename: fh.Filename, Data: data})
	}

	return application.EstimateRequest{
		Customer: booking.Customer{
			Name:  value("customerName"),
			Email: value("email"),
			Phone: value("phone"),
		},
		Details: booking.ServiceDetails{
			StartAddress: value("startAddress"),
			EndAddress:   value("endAddress"),
			DistanceKm:   distance,
			Services:     services,
			BookingDate:  value("bookingDate"),
			BookingTime:  value("bookingTime"),
			Notes:        value("additionalNotes"),
		},
		Files: files,
	}, nil
}

// parseServices accepts a JSON array or a comma separated list.
func parseServices(raw string) ([]booking.ServiceCode, error) {
	if raw == "" {
		return nil, nil
	}
	var names []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			return nil, apperror.NewFieldError("selectedServices", "selected services must be a JSON array of strings")
		}
	} else {
		names = strings.Split(raw, ",")
	}

	codes := make([]booking.ServiceCode, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			codes = append(codes, booking.ServiceCode(n))
		}
	}
	return codes, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > booking.MaxAttachmentBytes {
		return nil, apperror.NewFieldError("files", fmt.Sprintf("%s exceeds the 10 MB limit", fh.Filename))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, booking.MaxAttachmentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
	}
	return data, nil
}
