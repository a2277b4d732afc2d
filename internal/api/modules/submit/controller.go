package submit

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ethanbaker/intake/internal/sheets"
	"github.com/ethanbaker/intake/internal/submission"
	"github.com/ethanbaker/intake/pkg/sdk"
	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 64 << 10

const (
	msgSubmitted     = "Project submitted successfully"
	msgSubmitFailed  = "Failed to submit to Google Sheets"
	msgConnected     = "Successfully connected to Google Sheets"
	msgConnectFailed = "Failed to connect to Google Sheets"
)

type controller struct {
	sheet Sheet
	now   func() time.Time
}

// Submit handles POST requests carrying a project submission
func (ctl *controller) Submit(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(sdk.NewError(http.StatusRequestEntityTooLarge, "Request body too large").AsGinResponse())
			return
		}
		c.JSON(sdk.NewError(http.StatusBadRequest, "Could not read request body").AsGinResponse())
		return
	}

	in, err := submission.Parse(c.Request.Context(), body)
	if err != nil {
		var verr *submission.ValidationError
		if !errors.As(err, &verr) {
			log.Printf("[SUBMIT]: Unexpected parse failure: %v", err)
			c.JSON(sdk.NewError(http.StatusInternalServerError, msgSubmitFailed).AsGinResponse())
			return
		}

		log.Printf("[SUBMIT]: Rejected submission: %v", verr)
		c.JSON(sdk.NewError(http.StatusUnprocessableEntity, toSDKFieldErrors(verr)).AsGinResponse())
		return
	}

	rec := submission.NewRecord(in, ctl.now())
	c.Header("X-Submission-ID", rec.ID.String())

	if err := ctl.sheet.Append(c.Request.Context(), rec); err != nil {
		logSheetFailure("Submission "+rec.ID.String(), err)
		c.JSON(sdk.NewError(http.StatusInternalServerError, msgSubmitFailed).AsGinResponse())
		return
	}

	log.Printf("[SUBMIT]: Submission %s appended at %s", rec.ID, rec.SubmissionDate)
	c.JSON(sdk.NewSuccess(msgSubmitted).AsGinResponse())
}

// CheckSheet handles GET requests verifying the spreadsheet connection
func (ctl *controller) CheckSheet(c *gin.Context) {
	if err := ctl.sheet.Verify(c.Request.Context()); err != nil {
		logSheetFailure("Connection check", err)
		c.JSON(sdk.NewError(http.StatusInternalServerError, msgConnectFailed).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccess(msgConnected).AsGinResponse())
}

// logSheetFailure records the full cause server-side; callers only get a generic message
func logSheetFailure(what string, err error) {
	var credErr *sheets.CredentialError
	var connErr *sheets.ConnectionError

	switch {
	case errors.As(err, &credErr):
		log.Printf("[SUBMIT]: %s failed, service account misconfigured: %v", what, credErr)
	case errors.As(err, &connErr):
		log.Printf("[SUBMIT]: %s failed during %s: %v", what, connErr.Op, connErr.Err)
	default:
		log.Printf("[SUBMIT]: %s failed: %v", what, err)
	}
}

// Helper method to convert validation errors to sdk field errors
func toSDKFieldErrors(verr *submission.ValidationError) []sdk.FieldError {
	fields := make([]sdk.FieldError, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, sdk.FieldError{Field: f.Field, Message: f.Message})
	}
	return fields
}
