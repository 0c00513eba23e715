package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rezonia/fiscal-processor/internal/builder"
	fiscaldecimal "github.com/rezonia/fiscal-processor/internal/decimal"
	"github.com/rezonia/fiscal-processor/internal/logger"
	"github.com/rezonia/fiscal-processor/internal/model"
	xmlparser "github.com/rezonia/fiscal-processor/internal/parser/xml"
	"github.com/rezonia/fiscal-processor/internal/processor"
	"github.com/rezonia/fiscal-processor/internal/signature"
	"github.com/rezonia/fiscal-processor/internal/validator"
)

const xmlContentType = "application/xml; charset=utf-8"

func (s *Server) handleValidateHeader(c *gin.Context) {
	var req model.ManualHeader
	if !bindJSON(c, &req) {
		return
	}
	s.respondValidation(c, "header", validator.ValidateManualHeader(req))
}

func (s *Server) handleValidateItems(c *gin.Context) {
	var req ItemsRequest
	if !bindJSON(c, &req) {
		return
	}
	res := validator.ValidateManualItems(req.Kind, req.Items)
	s.metrics.IncrementValidation("items", res.IsValid)
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleValidateTotals(c *gin.Context) {
	var req TotalsRequest
	if !bindJSON(c, &req) {
		return
	}
	res := validator.ValidateTotalConsistency(req.Total, req.Kind, req.Items)
	s.metrics.IncrementValidation("totals", res.IsValid)
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleValidateManual(c *gin.Context) {
	var req model.ManualEntry
	if !bindJSON(c, &req) {
		return
	}
	res := validator.ValidateManualEntry(req)
	s.metrics.IncrementValidation("manual", res.IsValid)
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleValidateEmitter(c *gin.Context) {
	var req model.Emitter
	if !bindJSON(c, &req) {
		return
	}
	s.respondValidation(c, "emitter", validator.ValidateEmitter(req))
}

func (s *Server) handleValidateRecipient(c *gin.Context) {
	var req model.Recipient
	if !bindJSON(c, &req) {
		return
	}
	s.respondValidation(c, "recipient", validator.ValidateRecipient(req))
}

func (s *Server) handleValidateTransport(c *gin.Context) {
	var req model.Transport
	if !bindJSON(c, &req) {
		return
	}
	s.respondValidation(c, "transport", validator.ValidateTransport(req))
}

func (s *Server) handleValidateTaxes(c *gin.Context) {
	var req model.Taxes
	if !bindJSON(c, &req) {
		return
	}
	s.respondValidation(c, "taxes", validator.ValidateProductTaxes(req))
}

func (s *Server) handleValidateService(c *gin.Context) {
	var req model.NFSeService
	if !bindJSON(c, &req) {
		return
	}
	s.respondValidation(c, "service", validator.ValidateServiceData(req))
}

func (s *Server) respondValidation(c *gin.Context, operation string, res model.ValidationResult) {
	s.metrics.IncrementValidation(operation, res.IsValid)
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleComputeTax(c *gin.Context) {
	var req TaxComputeRequest
	if !bindJSON(c, &req) {
		return
	}

	var amount decimal.Decimal
	switch req.Tax {
	case "icms":
		amount = fiscaldecimal.ComputeICMS(req.Base, req.Rate)
	case "ipi":
		amount = fiscaldecimal.ComputeIPI(req.Base, req.Rate)
	case "iss":
		amount = fiscaldecimal.ComputeISS(req.Base, req.Rate)
	}
	c.JSON(http.StatusOK, TaxComputeResponse{Tax: req.Tax, Amount: amount})
}

func (s *Server) handleBuildNFe(c *gin.Context) {
	var req model.NFeInput
	if !bindJSON(c, &req) {
		return
	}

	if wantValidation(c) {
		res := validator.ValidateNFeInput(req)
		s.metrics.IncrementValidation("nfe", res.IsValid)
		if !res.IsValid {
			c.JSON(http.StatusUnprocessableEntity, res)
			return
		}
	}

	out := builder.BuildNFeXML(req, buildOptions(c)...)
	s.metrics.IncrementBuilt("nfe")
	c.Data(http.StatusOK, xmlContentType, []byte(out))
}

func (s *Server) handleBuildNFSe(c *gin.Context) {
	var req model.NFSeInput
	if !bindJSON(c, &req) {
		return
	}

	if wantValidation(c) {
		res := validator.ValidateNFSeInput(req)
		s.metrics.IncrementValidation("nfse", res.IsValid)
		if !res.IsValid {
			c.JSON(http.StatusUnprocessableEntity, res)
			return
		}
	}

	out := builder.BuildNFSeXML(req, buildOptions(c)...)
	s.metrics.IncrementBuilt("nfse")
	c.Data(http.StatusOK, xmlContentType, []byte(out))
}

func wantValidation(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.Query("validate"))
	return v
}

// buildOptions reads ?indent=N
func buildOptions(c *gin.Context) []builder.Option {
	if n, err := strconv.Atoi(c.Query("indent")); err == nil && n > 0 {
		return []builder.Option{builder.WithIndent(n)}
	}
	return nil
}

func (s *Server) handleParse(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result := s.pipeline.ProcessXMLBytes(ctx, body)
	if result.Error != nil {
		s.metrics.IncrementParsed(string(model.DocumentUnknown), false)
		logger.FromGin(c).Debug("parse failed", zap.Error(result.Error))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:    result.Error.Error(),
			Warnings: result.Warnings,
		})
		return
	}

	doc := result.Document
	s.metrics.IncrementParsed(string(doc.Type), true)
	c.JSON(http.StatusOK, ParseResponse{
		Type:      doc.Type,
		NFe:       doc.NFe,
		NFSe:      doc.NFSe,
		Signature: result.Signature,
		Warnings:  result.Warnings,
	})
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	format := processor.DetectFormat(body)
	resp := InfoResponse{
		Format: format.String(),
		Size:   len(body),
	}
	if format == processor.FormatXML {
		if adapter, err := xmlparser.NewRegistry().Detect(body); err == nil {
			resp.DocumentType = adapter.DocumentType()
		} else {
			resp.DocumentType = model.DocumentUnknown
		}
		resp.Signed = signature.CanInspect(body)
	}

	c.JSON(http.StatusOK, resp)
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if isTooLarge(err) {
		abortTooLarge(c)
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}
	return body, true
}
