package rbac

// Permission nombra una única acción permitida. Son atómicas: ninguna implica a otra.
type Permission string

// Permisos administrativos.
const (
	PermCreateUser        Permission = "create_user"
	PermEditUser          Permission = "edit_user"
	PermDeactivateUser    Permission = "deactivate_user"
	PermAssignRole        Permission = "assign_role"
	PermViewLogs          Permission = "view_logs"
	PermViewAnalytics     Permission = "view_analytics"
	PermForceMoveWorkflow Permission = "force_move_workflow"
	PermUnlockContent     Permission = "unlock_content"
)

// Permisos de revisión de contenido.
const (
	PermAssignTopic        Permission = "assign_topic"
	PermReviewScript       Permission = "review_script"
	PermCommentScript      Permission = "comment_script"
	PermApproveScript      Permission = "approve_script"
	PermRejectScript       Permission = "reject_script"
	PermReviewVideo        Permission = "review_video"
	PermCommentVideo       Permission = "comment_video"
	PermApproveVideo       Permission = "approve_video"
	PermRejectVideo        Permission = "reject_video"
	PermViewScriptVersions Permission = "view_script_versions"
	PermViewDoctorProfiles Permission = "view_doctor_profiles"
)

// Permisos del doctor creador.
const (
	PermUploadPointers       Permission = "upload_pointers"
	PermRequestScriptChanges Permission = "request_script_changes"
	PermRequestVideoChanges  Permission = "request_video_changes"
	PermViewOwnContent       Permission = "view_own_content"
)

// Permisos de la agencia.
const (
	PermViewAssignedTopics   Permission = "view_assigned_topics"
	PermViewDoctorNotes      Permission = "view_doctor_notes"
	PermUploadScript         Permission = "upload_script"
	PermUploadScriptRevision Permission = "upload_script_revision"
	PermUploadVideo          Permission = "upload_video"
)

// Aprobador, lector y publicador.
const (
	PermViewApprovalChain Permission = "view_approval_chain"
	PermViewContent       Permission = "view_content"
	PermComment           Permission = "comment"
	PermPublishContent    Permission = "publish_content"
	PermEditMetadata      Permission = "edit_metadata"
)

var allPermissions = []Permission{
	PermCreateUser, PermEditUser, PermDeactivateUser, PermAssignRole,
	PermViewLogs, PermViewAnalytics, PermForceMoveWorkflow, PermUnlockContent,
	PermAssignTopic, PermReviewScript, PermCommentScript, PermApproveScript, PermRejectScript,
	PermReviewVideo, PermCommentVideo, PermApproveVideo, PermRejectVideo,
	PermViewScriptVersions, PermViewDoctorProfiles,
	PermUploadPointers, PermRequestScriptChanges, PermRequestVideoChanges, PermViewOwnContent,
	PermViewAssignedTopics, PermViewDoctorNotes, PermUploadScript, PermUploadScriptRevision, PermUploadVideo,
	PermViewApprovalChain, PermViewContent, PermComment, PermPublishContent, PermEditMetadata,
}

// AllPermissions devuelve todos los permisos declarados.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// Valid informa si p es uno de los permisos declarados.
func (p Permission) Valid() bool {
	for _, known := range allPermissions {
		if p == known {
			return true
		}
	}
	return false
}

func (p Permission) String() string { return string(p) }
