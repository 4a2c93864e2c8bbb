package task

type Stage string
type Priority string
type Category string

const StageBacklog Stage = "backlog"
const StageTodo Stage = "todo"
const StageInProgress Stage = "in_progress"
const StageApproved Stage = "approved"
const StageDone Stage = "done"

const PriorityUrgent Priority = "urgent"
const PriorityHigh Priority = "high"
const PriorityMedium Priority = "medium"
const PriorityLow Priority = "low"

const CategoryPaymentIssue Category = "payment_issue"
const CategoryOnboarding Category = "onboarding"
const CategoryTutorVetting Category = "tutor_vetting"
const CategoryListingReview Category = "listing_review"
const CategoryScheduling Category = "scheduling"
const CategorySupport Category = "support"
const CategoryOther Category = "other"

// Stages: все этапы в порядке отображения на доске.
var Stages = []Stage{StageBacklog, StageTodo, StageInProgress, StageApproved, StageDone}

func (s Stage) Valid() bool {
	switch s {
	case StageBacklog, StageTodo, StageInProgress, StageApproved, StageDone:
		return true
	}
	return false
}

// Initial сообщает, разрешён ли этап при создании задачи.
func (s Stage) Initial() bool {
	return s == StageBacklog || s == StageTodo
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func (c Category) Valid() bool {
	switch c {
	case CategoryPaymentIssue, CategoryOnboarding, CategoryTutorVetting,
		CategoryListingReview, CategoryScheduling, CategorySupport, CategoryOther:
		return true
	}
	return false
}
