package models

// LeadStage is the lead's position in the sales pipeline.
type LeadStage string

const (
	StageUncontacted LeadStage = "uncontacted"
	StageContacted   LeadStage = "contacted"
	StageDeposit     LeadStage = "deposit"
	StageTrial       LeadStage = "trial"
	StageBooked      LeadStage = "booked"
	StageConfirmed   LeadStage = "confirmed"
	StageChanges     LeadStage = "changes"
	StageCompleted   LeadStage = "completed"
	StageLost        LeadStage = "lost"
)

// Stages in pipeline order. "lost" is reachable from anywhere.
var Stages = []LeadStage{
	StageUncontacted,
	StageContacted,
	StageDeposit,
	StageTrial,
	StageBooked,
	StageConfirmed,
	StageChanges,
	StageCompleted,
	StageLost,
}

func IsValidStage(s LeadStage) bool {
	for _, st := range Stages {
		if st == s {
			return true
		}
	}
	return false
}

func stageIndex(s LeadStage) int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// StagePolicy is a declared transition table: which moves staff may make.
type StagePolicy map[LeadStage]map[LeadStage]bool

// Allows reports whether the policy permits moving from one stage to another.
// A nil entry for the source stage means the move is permitted, so the
// permissive policy stays an empty map.
func (p StagePolicy) Allows(from, to LeadStage) bool {
	if !IsValidStage(to) {
		return false
	}
	if from == to {
		return true
	}
	allowed, ok := p[from]
	if !ok {
		return true
	}
	return allowed[to]
}

// PermissiveStagePolicy allows any stage to move to any other, matching how
// staff actually use the pipeline.
func PermissiveStagePolicy() StagePolicy {
	return StagePolicy{}
}

// StrictStagePolicy allows forward moves only, plus dropping to lost from
// anywhere and reopening a lost lead back to contacted.
func StrictStagePolicy() StagePolicy {
	p := StagePolicy{}
	for _, from := range Stages {
		allowed := map[LeadStage]bool{StageLost: true}
		fi := stageIndex(from)
		for _, to := range Stages {
			if stageIndex(to) > fi && to != StageLost {
				allowed[to] = true
			}
		}
		p[from] = allowed
	}
	p[StageLost] = map[LeadStage]bool{StageContacted: true}
	return p
}
