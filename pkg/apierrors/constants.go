package apierrors

const (
	MsgInvalidTaskPayload      = "invalidTaskPayload"
	MsgTaskNotFound            = "taskNotFound"
	MsgValidationFailed        = "validationFailed"
	MsgUnknownVariant          = "unknownVariant"
	MsgLimitExceeded           = "limitExceeded"
	MsgModificationNotAllowed  = "modificationNotAllowed"
	MsgInvalidStatusTransition = "invalidStatusTransition"
	MsgCircularDependency      = "circularDependency"
	MsgHasDependencies         = "hasDependencies"
	MsgDependenciesIncomplete  = "dependenciesIncomplete"
	MsgApprovalRequired        = "approvalRequired"
	MsgStorageUnavailable      = "storageUnavailable"
	MsgInternalError           = "internalError"
)
