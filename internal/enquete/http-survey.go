// Survey lifecycle endpoints: create, info, status, expiry, activation,
// token provisioning, language management and deletion.
package enquete

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/enquete-app/enquete.go/internal/enquete/apierrors"
	"github.com/enquete-app/enquete.go/internal/enquete/dao"
	"github.com/enquete-app/enquete.go/internal/enquete/dto"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type SurveyContext struct {
	echo.Context
	Survey dao.Survey
}

func (s *Services) SurveyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		surveyID := c.Param("sid")

		survey, err := dao.GetSurvey(s.db, surveyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EErrorDefined(c, apierrors.ErrSurveyNotFound)
			}
			return EError(c, err)
		}

		return next(SurveyContext{c, *survey})
	}
}

func (s *Services) AddSurveyServices(g *echo.Group) {
	g.POST("/", s.createSurvey)
	g.GET("/", s.listSurveys)
	g.POST("/expire/:sid/", s.expireSurveyByID)

	surveyGroup := g.Group("/:sid", s.SurveyMiddleware)
	surveyGroup.GET("/", s.getSurveyInfo)
	surveyGroup.GET("/status/", s.getSurveyStatus)
	surveyGroup.GET("/counts/", s.getSurveyCounts)
	surveyGroup.POST("/expire/", s.expireSurvey)
	surveyGroup.POST("/activate/", s.activateSurvey)
	surveyGroup.POST("/tokens/", s.provisionTokens)
	surveyGroup.POST("/tokens/invite/", s.addInvitationToken)
	surveyGroup.POST("/attributes/migrate/", s.migrateAttributes)
	surveyGroup.DELETE("/languages/:lang/", s.removeLanguage)
	surveyGroup.DELETE("/", s.deleteSurvey)
}

type createSurveyRequest struct {
	dao.Survey
	Title       string `json:"title" validate:"required"`
	PreferredID string `json:"preferred_sid" validate:"surveyid"`
}

func (s *Services) createSurvey(c echo.Context) error {
	var req createSurveyRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}
	if req.Survey.Language == "" {
		req.Survey.Language = cfg.DefaultLanguage
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}

	survey := req.Survey
	survey.ID = req.PreferredID

	hasTemplatePermission := dao.CanUseTemplates(s.db, c.Request().Header.Get("X-User-Id"))
	if err := dao.FilterTemplateOnSave(s.db, &survey, hasTemplatePermission); err != nil {
		return EError(c, err)
	}

	baseSettings := dao.SurveyLanguageSetting{Title: req.Title}
	if err := dao.CreateSurvey(s.db, &survey, &baseSettings); err != nil {
		return EError(c, err)
	}

	slog.Info("Survey created", "sid", survey.ID, "language", survey.Language)
	return c.JSON(http.StatusCreated, survey)
}

func (s *Services) listSurveys(c echo.Context) error {
	query := s.db.Model(&dao.Survey{}).Preload("LanguageSettings")
	switch c.QueryParam("scope") {
	case "active":
		query = query.Scopes(dao.ScopeActive, dao.ScopeOpen(cfg.AdjustedNow()))
	case "public":
		query = query.Scopes(dao.ScopePublic)
	case "registration":
		query = query.Scopes(dao.ScopeRegistration(cfg.AdjustedNow()))
	}

	var surveys []dao.Survey
	if err := query.Order("datecreated DESC").Find(&surveys).Error; err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, surveys)
}

func (s *Services) getSurveyInfo(c echo.Context) error {
	survey := c.(SurveyContext).Survey

	info, err := survey.Info(s.db, c.QueryParam("lang"))
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

func (s *Services) getSurveyStatus(c echo.Context) error {
	survey := c.(SurveyContext).Survey

	questionCount, err := dao.QuestionCount(s.db, survey.ID)
	if err != nil {
		return EError(c, err)
	}
	groupCount, err := dao.GroupCount(s.db, survey.ID)
	if err != nil {
		return EError(c, err)
	}
	canCreate := dao.CanCreateContent(s.db, survey.ID, c.Request().Header.Get("X-User-Id"))

	return c.JSON(http.StatusOK, dto.SurveyStatusInfo{
		SID:    survey.ID,
		Status: string(survey.Status(cfg.AdjustedNow())),
		Hints:  survey.Hints(int(questionCount), int(groupCount), canCreate),
	})
}

func (s *Services) getSurveyCounts(c echo.Context) error {
	survey := c.(SurveyContext).Survey

	total, err := s.schema.ResponseCount(s.db, survey.ID)
	if err != nil {
		return EError(c, err)
	}
	complete, err := s.schema.CompletedResponseCount(s.db, survey.ID)
	if err != nil {
		return EError(c, err)
	}
	partial, err := s.schema.PartialResponseCount(s.db, survey.ID)
	if err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, dto.SurveyCounts{
		SID:          survey.ID,
		Total:        total,
		Complete:     complete,
		Incomplete:   partial,
		ResponseRate: s.schema.ResponseRate(s.db, survey.ID),
	})
}

func (s *Services) expireSurvey(c echo.Context) error {
	survey := c.(SurveyContext).Survey

	if err := survey.Expire(s.db, cfg.AdjustedNow()); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, survey)
}

// expireSurveyByID updates the expiry without loading the survey row.
func (s *Services) expireSurveyByID(c echo.Context) error {
	if err := dao.ExpireSurveyByID(s.db, c.Param("sid"), cfg.AdjustedNow()); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Services) activateSurvey(c echo.Context) error {
	survey := c.(SurveyContext).Survey

	if err := s.schema.Activate(s.db, &survey); err != nil {
		return EError(c, err)
	}
	slog.Info("Survey activated", "sid", survey.ID)
	return c.JSON(http.StatusOK, survey)
}

func (s *Services) provisionTokens(c echo.Context) error {
	survey := c.(SurveyContext).Survey

	if err := s.schema.ProvisionTokens(s.db, &survey); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

type invitationRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email" validate:"required,email"`
}

func (s *Services) addInvitationToken(c echo.Context) error {
	survey := c.(SurveyContext).Survey

	var req invitationRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBadRequest)
	}

	token, err := s.schema.AddInvitationToken(s.db, &survey, req.FirstName, req.LastName, req.Email)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"token": token})
}

func (s *Services) migrateAttributes(c echo.Context) error {
	survey := c.(SurveyContext).Survey

	migrated, err := survey.MigrateLegacyAttributes(s.db)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"migrated": migrated})
}

func (s *Services) removeLanguage(c echo.Context) error {
	survey := c.(SurveyContext).Survey

	if err := survey.RemoveLanguage(s.db, c.Param("lang")); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Services) deleteSurvey(c echo.Context) error {
	survey := c.(SurveyContext).Survey

	recursive := true
	if raw := c.QueryParam("recursive"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return EErrorDefined(c, apierrors.ErrBadRequest)
		}
		recursive = parsed
	}

	if err := s.schema.DeleteSurvey(s.db, survey.ID, recursive); err != nil {
		return EError(c, err)
	}
	slog.Info("Survey deleted", "sid", survey.ID, "recursive", recursive)
	return c.NoContent(http.StatusOK)
}
