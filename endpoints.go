package vhall

var (
	epCreateWebinar = endpoint{name: "create webinar", legacy: "/webinar/create", current: "/webinars/webinar/create"}
	epUpdateWebinar = endpoint{name: "update webinar", legacy: "/webinar/update", current: "/webinars/webinar/update"}
	epDeleteWebinar = endpoint{name: "delete webinar", legacy: "/webinar/delete", current: "/webinars/webinar/delete"}
	epWebinarInfo   = endpoint{name: "webinar info", legacy: "/webinar/fetch", current: "/webinars/webinar/info"}
	epListWebinars  = endpoint{name: "list webinars", legacy: "/webinar/list", current: "/webinars/webinar/list"}
	epStartWebinar  = endpoint{name: "start webinar", legacy: "/webinar/start", current: "/webinars/webinar/start-live"}
	epStopWebinar   = endpoint{name: "stop webinar", legacy: "/webinar/stop", current: "/webinars/webinar/stop-live"}
	epPushAddress   = endpoint{name: "push address", legacy: "/webinar/get-stream-push-address", current: "/webinars/webinar/get-stream-push-address"}

	epUploadImage = endpoint{name: "upload image", current: "/commons/upload/image"}
	epSetCover    = endpoint{name: "set cover", legacy: "/webinar/activeimage"}
	epSetDocument = endpoint{name: "set document", legacy: "/webinar/doc", current: "/documents/document/upload"}

	epRegisterUser = endpoint{name: "register user", legacy: "/user/register", current: "/users/user/add"}
	epAddRole      = endpoint{name: "add role", legacy: "/guest/add-authorization", current: "/webinars/role/add"}
	epRoleInfo     = endpoint{name: "role info", current: "/webinars/role/get-role-info"}
	epRolePassword = endpoint{name: "set role password", current: "/webinars/role/update-role-password"}
	epRoleStatus   = endpoint{name: "set role status", current: "/webinars/role/update-role-status"}
	epSetCallback  = endpoint{name: "set callback", legacy: "/callback/set", current: "/callbacks/callback/set"}
	epCallbackInfo = endpoint{name: "callback info", current: "/callbacks/callback/info"}
	epApplyList    = endpoint{name: "apply list", legacy: "/report/form", current: "/webinars/form/list"}
	epTrackList    = endpoint{name: "track list", legacy: "/report/track", current: "/statistics/watch/list"}
	epOnlineCount  = endpoint{name: "online count", legacy: "/report/online", current: "/statistics/online/count"}
)

const (
	legacyWatchURL  = "https://live.vhall.com/room/watch/"
	currentWatchURL = "https://live.vhall.com/v3/lives/watch/"
)
