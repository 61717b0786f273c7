package session

import (
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"vibecap/internal/model/caption"
)

func apply(s State, events ...Event) State {
	for _, ev := range events {
		s = Reduce(s, ev)
	}
	return s
}

func TestReduce_Inputs(t *testing.T) {
	convey.Convey("用户输入事件", t, func() {
		s := Initial()
		convey.So(s.Method, convey.ShouldEqual, caption.UploadMethodFile)
		convey.So(s.Vibe, convey.ShouldEqual, caption.VibeHappy)
		convey.So(s.Phase, convey.ShouldEqual, PhaseIdle)

		convey.Convey("选择风格后只有该风格生效", func() {
			for _, v := range caption.AllVibes() {
				next := Reduce(s, SelectVibe{Vibe: v})
				convey.So(next.Vibe, convey.ShouldEqual, v)
			}
		})

		convey.Convey("未知风格被忽略", func() {
			next := apply(s, SelectVibe{Vibe: caption.VibeSad}, SelectVibe{Vibe: "grumpy"})
			convey.So(next.Vibe, convey.ShouldEqual, caption.VibeSad)
		})

		convey.Convey("未知上传方式被忽略", func() {
			next := Reduce(s, SelectUploadMethod{Method: "ftp"})
			convey.So(next.Method, convey.ShouldEqual, caption.UploadMethodFile)
		})

		convey.Convey("描述超过 200 字符被截断", func() {
			next := Reduce(s, SetDescription{Text: strings.Repeat("x", 250)})
			convey.So(caption.DescriptionLength(next.Description), convey.ShouldEqual, caption.MaxDescriptionLength)
		})

		convey.Convey("Reduce 不修改入参", func() {
			_ = Reduce(s, SelectVibe{Vibe: caption.VibeMysterious})
			convey.So(s.Vibe, convey.ShouldEqual, caption.VibeHappy)
		})
	})
}

func TestState_Plan(t *testing.T) {
	convey.Convey("构造请求只读取当前上传方式的输入", t, func() {
		file := &caption.ImageFile{Name: "a.png", ContentType: "image/png", Data: []byte{1}}

		convey.Convey("没有任何图片时校验失败", func() {
			_, err := Initial().Plan(RequestGenerate)
			convey.So(err, convey.ShouldEqual, ErrMissingImage)
		})

		convey.Convey("file 切换到 url 后不会带上旧文件", func() {
			s := apply(Initial(),
				SelectFile{File: file},
				SelectUploadMethod{Method: caption.UploadMethodURL},
				SetImageURL{URL: "  https://img.example.com/b.jpg  "},
			)
			req, err := s.Plan(RequestGenerate)
			convey.So(err, convey.ShouldBeNil)
			convey.So(req.File, convey.ShouldBeNil)
			convey.So(req.ImageURL, convey.ShouldEqual, "https://img.example.com/b.jpg")
		})

		convey.Convey("url 切换到 file 后不会带上旧链接", func() {
			s := apply(Initial(),
				SelectUploadMethod{Method: caption.UploadMethodURL},
				SetImageURL{URL: "https://img.example.com/b.jpg"},
				SelectUploadMethod{Method: caption.UploadMethodFile},
				SelectFile{File: file},
			)
			req, err := s.Plan(RequestGenerate)
			convey.So(err, convey.ShouldBeNil)
			convey.So(req.File, convey.ShouldEqual, file)
			convey.So(req.ImageURL, convey.ShouldBeEmpty)
		})

		convey.Convey("切到 url 但链接为空时不会回退到旧文件", func() {
			s := apply(Initial(),
				SelectFile{File: file},
				SelectUploadMethod{Method: caption.UploadMethodURL},
			)
			_, err := s.Plan(RequestGenerate)
			convey.So(err, convey.ShouldEqual, ErrMissingImage)
		})

		convey.Convey("没有 base_caption 时刷新等同于生成", func() {
			s := apply(Initial(),
				SelectFile{File: file},
				SelectVibe{Vibe: caption.VibeSad},
				SetDescription{Text: "rainy day"},
			)
			refresh, err := s.Plan(RequestRefresh)
			convey.So(err, convey.ShouldBeNil)
			generate, err := s.Plan(RequestGenerate)
			convey.So(err, convey.ShouldBeNil)
			convey.So(refresh, convey.ShouldResemble, generate)
			convey.So(refresh.Kind, convey.ShouldEqual, RequestGenerate)
		})

		convey.Convey("有 base_caption 时刷新不需要图片", func() {
			s := apply(Initial(), ResumeToken{Token: caption.NewSessionToken("B")})
			req, err := s.Plan(RequestRefresh)
			convey.So(err, convey.ShouldBeNil)
			convey.So(req.Kind, convey.ShouldEqual, RequestRefresh)
			convey.So(req.Token.Value(), convey.ShouldEqual, "B")
			convey.So(req.File, convey.ShouldBeNil)
		})
	})
}

func TestReduce_Requests(t *testing.T) {
	convey.Convey("请求生命周期 idle → in_flight → success|failed → idle", t, func() {
		s := apply(Initial(), SetImageURL{URL: "https://x/y.jpg"}, SelectUploadMethod{Method: caption.UploadMethodURL})

		convey.Convey("生成开始时清空文案", func() {
			s = apply(s, Submit{Kind: RequestGenerate}, GenerateSucceeded{Seq: 1, Result: caption.Result{Caption: "old", Token: caption.NewSessionToken("B0")}})
			s = Reduce(s, Submit{Kind: RequestGenerate})
			convey.So(s.InFlight(), convey.ShouldBeTrue)
			convey.So(s.Pending, convey.ShouldEqual, RequestGenerate)
			convey.So(s.Caption, convey.ShouldBeEmpty)
		})

		convey.Convey("生成成功后保存文案和 token", func() {
			s = apply(s, Submit{Kind: RequestGenerate}, GenerateSucceeded{Seq: 1, Result: caption.Result{Caption: "C", Token: caption.NewSessionToken("B")}})
			convey.So(s.InFlight(), convey.ShouldBeFalse)
			convey.So(s.Outcome, convey.ShouldEqual, OutcomeSuccess)
			convey.So(s.Caption, convey.ShouldEqual, "C")
			convey.So(s.Token.Value(), convey.ShouldEqual, "B")

			convey.Convey("刷新期间保留旧文案，成功后只更新文案", func() {
				s = Reduce(s, Submit{Kind: RequestRefresh})
				convey.So(s.Caption, convey.ShouldEqual, "C")
				req, err := s.Plan(RequestRefresh)
				convey.So(err, convey.ShouldBeNil)
				convey.So(req.Token.Value(), convey.ShouldEqual, "B")

				s = Reduce(s, RefreshSucceeded{Seq: 2, Caption: "C'"})
				convey.So(s.Caption, convey.ShouldEqual, "C'")
				convey.So(s.Token.Value(), convey.ShouldEqual, "B")
				convey.So(s.Phase, convey.ShouldEqual, PhaseIdle)
			})

			convey.Convey("失败时展示固定文案并保留 token", func() {
				s = apply(s, Submit{Kind: RequestRefresh}, RequestFailed{Seq: 2, Fallback: caption.DefaultFallbackMessage})
				convey.So(s.Caption, convey.ShouldEqual, caption.DefaultFallbackMessage)
				convey.So(s.Outcome, convey.ShouldEqual, OutcomeFailed)
				convey.So(s.InFlight(), convey.ShouldBeFalse)
				convey.So(s.Token.Value(), convey.ShouldEqual, "B")
			})
		})

		convey.Convey("请求中重复提交被忽略", func() {
			s = Reduce(s, Submit{Kind: RequestGenerate})
			again := Reduce(s, Submit{Kind: RequestRefresh})
			convey.So(again, convey.ShouldResemble, s)
		})

		convey.Convey("重置后迟到的响应被丢弃", func() {
			s = apply(s, Submit{Kind: RequestGenerate}, Reset{}, GenerateSucceeded{Seq: 1, Result: caption.Result{Caption: "late", Token: caption.NewSessionToken("L")}})
			convey.So(s.Caption, convey.ShouldBeEmpty)
			convey.So(s.HasToken(), convey.ShouldBeFalse)
			convey.So(s.Outcome, convey.ShouldEqual, OutcomeNone)
		})

		convey.Convey("重置并重新提交后，上一次请求的响应不会覆盖新请求", func() {
			s = apply(s, Submit{Kind: RequestGenerate}, Reset{},
				SelectUploadMethod{Method: caption.UploadMethodURL},
				SetImageURL{URL: "https://x/new.jpg"},
				Submit{Kind: RequestGenerate})
			convey.So(s.RequestSeq, convey.ShouldEqual, 2)

			s = Reduce(s, GenerateSucceeded{Seq: 1, Result: caption.Result{Caption: "old image", Token: caption.NewSessionToken("OLD")}})
			convey.So(s.InFlight(), convey.ShouldBeTrue)
			convey.So(s.Caption, convey.ShouldBeEmpty)
			convey.So(s.HasToken(), convey.ShouldBeFalse)

			s = Reduce(s, RequestFailed{Seq: 1, Fallback: caption.DefaultFallbackMessage})
			convey.So(s.InFlight(), convey.ShouldBeTrue)

			s = Reduce(s, GenerateSucceeded{Seq: 2, Result: caption.Result{Caption: "new image", Token: caption.NewSessionToken("NEW")}})
			convey.So(s.InFlight(), convey.ShouldBeFalse)
			convey.So(s.Caption, convey.ShouldEqual, "new image")
			convey.So(s.Token.Value(), convey.ShouldEqual, "NEW")
			convey.So(s.ImageURL, convey.ShouldEqual, "https://x/new.jpg")
		})
	})
}

func TestReduce_Copy(t *testing.T) {
	convey.Convey("复制提示", t, func() {
		convey.Convey("没有文案时复制无效", func() {
			s := Reduce(Initial(), Copied{})
			convey.So(s.Copied, convey.ShouldBeFalse)
			convey.So(s.CopySeq, convey.ShouldEqual, 0)
		})

		convey.Convey("到期事件只清除对应序号的提示", func() {
			s := Initial()
			s.Caption = "C"
			s = Reduce(s, Copied{})
			first := s.CopySeq
			convey.So(s.Copied, convey.ShouldBeTrue)

			s = Reduce(s, Copied{})
			convey.So(s.CopySeq, convey.ShouldEqual, first+1)

			s = Reduce(s, CopyExpired{Seq: first})
			convey.So(s.Copied, convey.ShouldBeTrue)

			s = Reduce(s, CopyExpired{Seq: first + 1})
			convey.So(s.Copied, convey.ShouldBeFalse)
		})

		convey.Convey("重置保留复制序号", func() {
			s := Initial()
			s.Caption = "C"
			s = apply(s, Copied{}, Reset{})
			convey.So(s.Copied, convey.ShouldBeFalse)
			convey.So(s.CopySeq, convey.ShouldEqual, 1)
		})
	})
}
