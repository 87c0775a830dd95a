//go:build linux && cgo

package readback

/*
#cgo pkg-config: egl glesv2
#include <stdlib.h>
#include <string.h>
#include <EGL/egl.h>
#include <EGL/eglext.h>
#include <GLES2/gl2.h>
#include <GLES2/gl2ext.h>

typedef struct rb_ctx {
	EGLDisplay dpy;
	EGLContext ctx;
	GLuint prog;
	GLint loc_invert;
} rb_ctx;

static PFNEGLCREATEIMAGEKHRPROC p_eglCreateImageKHR;
static PFNEGLDESTROYIMAGEKHRPROC p_eglDestroyImageKHR;
static PFNGLEGLIMAGETARGETTEXTURE2DOESPROC p_glEGLImageTargetTexture2DOES;

// Identity UV: glReadPixels on an FBO returns rows in the same memory
// order they were uploaded, so no V-flip here. Frame-level y-invert is
// handled downstream from the copy protocol's flag.
static const char *rb_vert_src =
	"attribute vec2 a_pos;\n"
	"varying vec2 v_uv;\n"
	"void main() {\n"
	"  v_uv = a_pos * 0.5 + 0.5;\n"
	"  gl_Position = vec4(a_pos, 0.0, 1.0);\n"
	"}\n";

static const char *rb_frag_src =
	"precision mediump float;\n"
	"uniform sampler2D u_tex;\n"
	"uniform bool u_invert;\n"
	"varying vec2 v_uv;\n"
	"void main() {\n"
	"  vec4 c = texture2D(u_tex, v_uv);\n"
	"  if (u_invert) c = vec4(vec3(1.0) - c.rgb, c.a);\n"
	"  gl_FragColor = c;\n"
	"}\n";

static GLuint rb_compile(GLenum kind, const char *src) {
	GLuint sh = glCreateShader(kind);
	glShaderSource(sh, 1, &src, NULL);
	glCompileShader(sh);
	GLint ok = 0;
	glGetShaderiv(sh, GL_COMPILE_STATUS, &ok);
	if (!ok) {
		glDeleteShader(sh);
		return 0;
	}
	return sh;
}

static int rb_init(rb_ctx *c) {
	c->dpy = eglGetDisplay(EGL_DEFAULT_DISPLAY);
	if (c->dpy == EGL_NO_DISPLAY) return -1;
	if (!eglInitialize(c->dpy, NULL, NULL)) return -2;
	if (!eglBindAPI(EGL_OPENGL_ES_API)) return -3;

	EGLint cfg_attribs[] = {
		EGL_SURFACE_TYPE, EGL_PBUFFER_BIT,
		EGL_RENDERABLE_TYPE, EGL_OPENGL_ES2_BIT,
		EGL_NONE,
	};
	EGLConfig cfg;
	EGLint n = 0;
	if (!eglChooseConfig(c->dpy, cfg_attribs, &cfg, 1, &n) || n == 0) return -4;

	EGLint ctx_attribs[] = { EGL_CONTEXT_CLIENT_VERSION, 2, EGL_NONE };
	c->ctx = eglCreateContext(c->dpy, cfg, EGL_NO_CONTEXT, ctx_attribs);
	if (c->ctx == EGL_NO_CONTEXT) return -5;
	if (!eglMakeCurrent(c->dpy, EGL_NO_SURFACE, EGL_NO_SURFACE, c->ctx)) return -6;

	p_eglCreateImageKHR = (PFNEGLCREATEIMAGEKHRPROC)eglGetProcAddress("eglCreateImageKHR");
	p_eglDestroyImageKHR = (PFNEGLDESTROYIMAGEKHRPROC)eglGetProcAddress("eglDestroyImageKHR");
	p_glEGLImageTargetTexture2DOES = (PFNGLEGLIMAGETARGETTEXTURE2DOESPROC)eglGetProcAddress("glEGLImageTargetTexture2DOES");
	if (!p_eglCreateImageKHR || !p_eglDestroyImageKHR || !p_glEGLImageTargetTexture2DOES) return -7;

	GLuint vs = rb_compile(GL_VERTEX_SHADER, rb_vert_src);
	GLuint fs = rb_compile(GL_FRAGMENT_SHADER, rb_frag_src);
	if (!vs || !fs) return -8;
	c->prog = glCreateProgram();
	glAttachShader(c->prog, vs);
	glAttachShader(c->prog, fs);
	glBindAttribLocation(c->prog, 0, "a_pos");
	glLinkProgram(c->prog);
	glDeleteShader(vs);
	glDeleteShader(fs);
	GLint ok = 0;
	glGetProgramiv(c->prog, GL_LINK_STATUS, &ok);
	if (!ok) return -9;
	c->loc_invert = glGetUniformLocation(c->prog, "u_invert");
	return 0;
}

static void rb_destroy(rb_ctx *c) {
	if (c->dpy == EGL_NO_DISPLAY) return;
	eglMakeCurrent(c->dpy, EGL_NO_SURFACE, EGL_NO_SURFACE, EGL_NO_CONTEXT);
	if (c->ctx != EGL_NO_CONTEXT) eglDestroyContext(c->dpy, c->ctx);
	eglTerminate(c->dpy);
	c->dpy = EGL_NO_DISPLAY;
}

#ifndef DRM_FORMAT_MOD_INVALID
#define DRM_FORMAT_MOD_INVALID 0x00ffffffffffffffULL
#endif

static int rb_read(rb_ctx *c, int fd, int width, int height, int stride,
		unsigned int fourcc, unsigned long long modifier, int invert, void *out) {
	EGLint attribs[32];
	int i = 0;
	attribs[i++] = EGL_WIDTH;              attribs[i++] = width;
	attribs[i++] = EGL_HEIGHT;             attribs[i++] = height;
	attribs[i++] = EGL_LINUX_DRM_FOURCC_EXT;      attribs[i++] = (EGLint)fourcc;
	attribs[i++] = EGL_DMA_BUF_PLANE0_FD_EXT;     attribs[i++] = fd;
	attribs[i++] = EGL_DMA_BUF_PLANE0_OFFSET_EXT; attribs[i++] = 0;
	attribs[i++] = EGL_DMA_BUF_PLANE0_PITCH_EXT;  attribs[i++] = stride;
	if (modifier != DRM_FORMAT_MOD_INVALID) {
		attribs[i++] = EGL_DMA_BUF_PLANE0_MODIFIER_LO_EXT;
		attribs[i++] = (EGLint)(modifier & 0xffffffff);
		attribs[i++] = EGL_DMA_BUF_PLANE0_MODIFIER_HI_EXT;
		attribs[i++] = (EGLint)(modifier >> 32);
	}
	attribs[i++] = EGL_NONE;

	EGLImageKHR img = p_eglCreateImageKHR(c->dpy, EGL_NO_CONTEXT,
		EGL_LINUX_DMA_BUF_EXT, (EGLClientBuffer)NULL, attribs);
	if (img == EGL_NO_IMAGE_KHR) return -1;

	GLuint src = 0, dst = 0, fbo = 0;
	int rc = 0;

	glGenTextures(1, &src);
	glBindTexture(GL_TEXTURE_2D, src);
	glTexParameteri(GL_TEXTURE_2D, GL_TEXTURE_MIN_FILTER, GL_NEAREST);
	glTexParameteri(GL_TEXTURE_2D, GL_TEXTURE_MAG_FILTER, GL_NEAREST);
	p_glEGLImageTargetTexture2DOES(GL_TEXTURE_2D, img);
	if (glGetError() != GL_NO_ERROR) { rc = -2; goto done; }

	glGenTextures(1, &dst);
	glBindTexture(GL_TEXTURE_2D, dst);
	glTexImage2D(GL_TEXTURE_2D, 0, GL_RGBA, width, height, 0,
		GL_RGBA, GL_UNSIGNED_BYTE, NULL);
	glTexParameteri(GL_TEXTURE_2D, GL_TEXTURE_MIN_FILTER, GL_NEAREST);
	glTexParameteri(GL_TEXTURE_2D, GL_TEXTURE_MAG_FILTER, GL_NEAREST);

	glGenFramebuffers(1, &fbo);
	glBindFramebuffer(GL_FRAMEBUFFER, fbo);
	glFramebufferTexture2D(GL_FRAMEBUFFER, GL_COLOR_ATTACHMENT0,
		GL_TEXTURE_2D, dst, 0);
	if (glCheckFramebufferStatus(GL_FRAMEBUFFER) != GL_FRAMEBUFFER_COMPLETE) {
		rc = -3;
		goto done;
	}

	{
		static const GLfloat quad[] = { -1, -1, 3, -1, -1, 3 };
		glViewport(0, 0, width, height);
		glUseProgram(c->prog);
		glUniform1i(c->loc_invert, invert);
		glActiveTexture(GL_TEXTURE0);
		glBindTexture(GL_TEXTURE_2D, src);
		glEnableVertexAttribArray(0);
		glVertexAttribPointer(0, 2, GL_FLOAT, GL_FALSE, 0, quad);
		glDrawArrays(GL_TRIANGLES, 0, 3);
		glFinish();
	}

	glReadPixels(0, 0, width, height, GL_RGBA, GL_UNSIGNED_BYTE, out);
	if (glGetError() != GL_NO_ERROR) rc = -4;

done:
	glBindFramebuffer(GL_FRAMEBUFFER, 0);
	if (fbo) glDeleteFramebuffers(1, &fbo);
	if (dst) glDeleteTextures(1, &dst);
	if (src) glDeleteTextures(1, &src);
	p_eglDestroyImageKHR(c->dpy, img);
	return rc;
}
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/example/waycapture/internal/frame"
)

// NewWorker brings up an EGL context on a dedicated thread and starts
// accepting readback jobs.
func NewWorker() (*Worker, error) {
	w := &Worker{
		jobs: make(chan job),
		done: make(chan struct{}),
	}
	initErr := make(chan error, 1)
	go w.run(initErr)
	if err := <-initErr; err != nil {
		return nil, err
	}
	return w, nil
}

// Close tears the context down. In-flight jobs complete first.
func (w *Worker) Close() error {
	close(w.done)
	return nil
}

func (w *Worker) run(initErr chan<- error) {
	// EGL contexts are bound to the thread that made them current.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var c C.rb_ctx
	if rc := C.rb_init(&c); rc != 0 {
		initErr <- fmt.Errorf("egl init failed (code %d): %w", int(rc), ErrUnavailable)
		return
	}
	initErr <- nil
	defer C.rb_destroy(&c)

	for {
		select {
		case <-w.done:
			return
		case j := <-w.jobs:
			j.reply <- w.process(&c, j)
		}
	}
}

func (w *Worker) process(c *C.rb_ctx, j job) result {
	if err := j.ctx.Err(); err != nil {
		return result{err: err}
	}
	f := j.buf.Format
	pix := frame.NewPixelBuffer(int(f.Width), int(f.Height))

	invert := C.int(0)
	if j.opts.InvertColors {
		invert = 1
	}
	rc := C.rb_read(c, C.int(j.buf.Fd),
		C.int(f.Width), C.int(f.Height), C.int(f.Stride),
		C.uint(f.Pixel.DRMCode()), C.ulonglong(f.Modifier),
		invert, unsafe.Pointer(&pix.Pix[0]))
	if rc != 0 {
		return result{err: fmt.Errorf("dmabuf import/draw (code %d): %w", int(rc), ErrReadbackFailed)}
	}
	return result{pix: pix}
}
