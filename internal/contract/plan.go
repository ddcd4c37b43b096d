package contract

import "github.com/alexanderramin/obra/internal/app"

type DayLoad = app.DayLoad

type UnscheduledHours = app.UnscheduledHours

type PlanPreview = app.PlanPreview

type PartFailure = app.PartFailure

type CommitResult = app.CommitResult

type PlanErrorCode = app.PlanErrorCode

const (
	PlanErrInvalid  PlanErrorCode = app.PlanErrInvalid
	PlanErrNotFound PlanErrorCode = app.PlanErrNotFound
	PlanErrInternal PlanErrorCode = app.PlanErrInternal
)

type PlanError = app.PlanError

type PreviewPlanUseCase = app.PreviewPlanUseCase

type CommitPlanUseCase = app.CommitPlanUseCase
